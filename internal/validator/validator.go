package validator

import (
	"fmt"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/grid"
)

type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// ValidateStage checks that a generated board is 27 digits, three of each.
func (v *FastValidator) ValidateStage(values []int) (bool, []domain.Conflict) {
	conf := make([]domain.Conflict, 0, 4)
	if len(values) != domain.StageTiles {
		conf = append(conf, domain.Conflict{Index: -1, Reason: fmt.Sprintf("expected %d values, got %d", domain.StageTiles, len(values))})
	}
	var counts [10]int
	for i, val := range values {
		if val < 1 || val > 9 {
			conf = append(conf, domain.Conflict{Index: i, Reason: fmt.Sprintf("value %d out of range", val)})
			continue
		}
		counts[val]++
		if counts[val] > 3 {
			conf = append(conf, domain.Conflict{Index: i, Reason: fmt.Sprintf("fourth copy of %d", val)})
		}
	}
	if len(values) == domain.StageTiles {
		for d := 1; d <= 9; d++ {
			if counts[d] < 3 {
				conf = append(conf, domain.Conflict{Index: -1, Reason: fmt.Sprintf("only %d copies of %d", counts[d], d)})
			}
		}
	}
	return len(conf) == 0, conf
}

// ValidateGrid checks the bookkeeping of a live grid: the row count follows
// the numbered count, nothing past the numbered prefix holds a digit, and
// every tile carries a legal value and marker.
func (v *FastValidator) ValidateGrid(g *grid.Grid) (bool, []domain.Conflict) {
	conf := make([]domain.Conflict, 0, 4)
	want := (g.NumberedCount() + domain.Cols - 1) / domain.Cols
	if g.RowCount() != want {
		conf = append(conf, domain.Conflict{Index: -1, Reason: fmt.Sprintf("row count %d, expected %d", g.RowCount(), want)})
	}
	for i := g.NumberedCount(); i < g.Len(); i++ {
		if g.Value(i) != 0 {
			conf = append(conf, domain.Conflict{Index: i, Reason: "digit past the numbered prefix"})
		}
	}
	for i := 0; i < g.Len(); i++ {
		t := g.Tile(i)
		if t.Value < 0 || t.Value > 9 {
			conf = append(conf, domain.Conflict{Index: i, Reason: fmt.Sprintf("value %d out of range", t.Value)})
		}
		if t.Marker < domain.MarkerNone || t.Marker > domain.MarkerPurple {
			conf = append(conf, domain.Conflict{Index: i, Reason: fmt.Sprintf("unknown marker %d", t.Marker)})
		}
		if t.Value == 0 && t.Active() {
			conf = append(conf, domain.Conflict{Index: i, Reason: "active empty slot"})
		}
		if t.Marker != domain.MarkerNone && !t.Numbered() {
			conf = append(conf, domain.Conflict{Index: i, Reason: "marker on inactive tile"})
		}
	}
	return len(conf) == 0, conf
}
