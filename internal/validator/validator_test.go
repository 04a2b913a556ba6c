package validator

import (
	"testing"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/grid"
)

func TestValidateStage(t *testing.T) {
	good := make([]int, 0, 27)
	for v := 1; v <= 9; v++ {
		good = append(good, v, v, v)
	}

	cases := []struct {
		name  string
		mut   func([]int) []int
		ok    bool
		count int
	}{
		{"valid", func(b []int) []int { return b }, true, 0},
		{"short", func(b []int) []int { return b[:26] }, false, 1},
		{"zero", func(b []int) []int { b[0] = 0; return b }, false, 2},
		{"fourth copy", func(b []int) []int { b[0] = 2; return b }, false, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := append([]int(nil), good...)
			ok, conf := New().ValidateStage(tc.mut(b))
			if ok != tc.ok || len(conf) != tc.count {
				t.Fatalf("got ok=%v conflicts=%v, want ok=%v with %d conflicts", ok, conf, tc.ok, tc.count)
			}
		})
	}
}

func TestValidateGrid(t *testing.T) {
	g := grid.New(10)
	g.LoadValues([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1}, 0)
	if ok, conf := New().ValidateGrid(g); !ok {
		t.Fatalf("fresh grid should be valid: %v", conf)
	}
	g.Disable(9)
	g.Replenish()
	if ok, conf := New().ValidateGrid(g); !ok {
		t.Fatalf("replenished grid should be valid: %v", conf)
	}
}

func TestValidateGridFlagsBrokenTiles(t *testing.T) {
	row := func() []domain.Tile {
		ts := make([]domain.Tile, domain.Cols)
		for i := range ts {
			ts[i] = domain.Tile{Index: i, Value: i + 1}
		}
		return ts
	}
	cases := []struct {
		name     string
		numbered int
		edit     func([]domain.Tile) []domain.Tile
	}{
		{"digit past prefix", 5, func(ts []domain.Tile) []domain.Tile { return ts }},
		{"value too large", 9, func(ts []domain.Tile) []domain.Tile { ts[3].Value = 12; return ts }},
		{"negative value", 9, func(ts []domain.Tile) []domain.Tile { ts[3].Value = -1; return ts }},
		{"active empty slot", 9, func(ts []domain.Tile) []domain.Tile { ts[2].Value = 0; return ts }},
		{"marker on disabled tile", 9, func(ts []domain.Tile) []domain.Tile {
			ts[4].Status = domain.Disabled
			ts[4].Marker = domain.MarkerPink
			return ts
		}},
		{"unknown marker", 9, func(ts []domain.Tile) []domain.Tile { ts[4].Marker = 7; return ts }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := grid.FromTiles(tc.edit(row()), tc.numbered)
			if ok, _ := New().ValidateGrid(g); ok {
				t.Fatal("expected a conflict")
			}
		})
	}
}
