package hint

import (
	"context"
	"fmt"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/match"
)

// FirstPair implements a minimal Hinter that points at the lowest-index pair.
type FirstPair struct{}

func NewFirstPair() *FirstPair { return &FirstPair{} }

// Hint returns the first pair in board order that can be removed.
func (h *FirstPair) Hint(ctx context.Context, b match.Board) (domain.Hint, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Hint{}, false, err
	}
	p, ok := match.First(b)
	if !ok {
		return domain.Hint{}, false, nil
	}
	return domain.Hint{
		Message: describe(b, p[0], p[1]),
		Tiles:   []int{p[0], p[1]},
	}, true, nil
}

func describe(b match.Board, i, j int) string {
	a, c := b.Value(i), b.Value(j)
	rel := "in reading order"
	switch s := match.Step(i, j); {
	case s == 1:
		rel = "along the row"
	case s == domain.Cols:
		rel = "down the column"
	case s != 0:
		rel = "on the diagonal"
	}
	if a == c {
		return fmt.Sprintf("Pair: two %ds %s", a, rel)
	}
	return fmt.Sprintf("Pair: %d and %d make ten %s", a, c, rel)
}
