package hint

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"svw.info/pairs/internal/grid"
	"svw.info/pairs/internal/match"
)

func TestHintFindsLowestPair(t *testing.T) {
	g := grid.New(3)
	g.LoadValues([]int{1, 2, 3, 4, 6, 5, 7, 8, 9}, 0)
	h, ok, err := NewFirstPair().Hint(context.Background(), g)
	if err != nil || !ok {
		t.Fatalf("expected a hint, got ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff([]int{3, 4}, h.Tiles); diff != "" {
		t.Fatalf("tiles mismatch (-want +got):\n%s", diff)
	}
	if h.Message != "Pair: 4 and 6 make ten along the row" {
		t.Fatalf("unexpected message %q", h.Message)
	}
}

func TestHintRowWrap(t *testing.T) {
	v := match.Values{1, 2, 3, 1, 2, 3, 1, 2, 4, 4}
	h, ok, _ := NewFirstPair().Hint(context.Background(), v)
	if !ok {
		t.Fatal("expected a hint")
	}
	if diff := cmp.Diff([]int{8, 9}, h.Tiles); diff != "" {
		t.Fatalf("tiles mismatch (-want +got):\n%s", diff)
	}
	if h.Message != "Pair: two 4s in reading order" {
		t.Fatalf("unexpected message %q", h.Message)
	}
}

func TestHintNone(t *testing.T) {
	g := grid.New(1)
	g.LoadValues([]int{1, 2, 3}, 0)
	if _, ok, _ := NewFirstPair().Hint(context.Background(), g); ok {
		t.Fatal("expected no hint")
	}
}
