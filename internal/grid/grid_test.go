package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"svw.info/pairs/internal/domain"
)

func stage() []int {
	vals := make([]int, 0, domain.StageTiles)
	for v := 1; v <= 9; v++ {
		vals = append(vals, v, v, v)
	}
	return vals
}

func values(g *Grid) []int {
	out := make([]int, g.RowCount()*domain.Cols)
	for i := range out {
		out[i] = g.Value(i)
	}
	return out
}

func TestNewPreinstantiatesEmptyRows(t *testing.T) {
	g := New(10)
	if g.Len() != 90 {
		t.Fatalf("expected 90 tiles, got %d", g.Len())
	}
	if g.RowCount() != 0 || g.NumberedCount() != 0 {
		t.Fatalf("expected empty counters, got rows=%d numbered=%d", g.RowCount(), g.NumberedCount())
	}
	for i := 0; i < g.Len(); i++ {
		if g.Active(i) {
			t.Fatalf("tile %d should start disabled", i)
		}
	}
}

func TestLoadValuesSetsCounters(t *testing.T) {
	g := New(10)
	g.LoadValues(stage(), 0)
	if g.NumberedCount() != 27 {
		t.Fatalf("expected 27 numbered, got %d", g.NumberedCount())
	}
	if g.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", g.RowCount())
	}
	if !g.Active(26) || g.Active(27) {
		t.Fatal("only the loaded prefix should be active")
	}
}

func TestLoadValuesGrowsCapacity(t *testing.T) {
	g := New(1)
	g.LoadValues(stage(), 0)
	if g.Capacity() != 3 {
		t.Fatalf("expected capacity of 3 rows, got %d", g.Capacity())
	}
}

func TestDisableReturnsMarkerOnce(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	g.SetMarker(4, domain.MarkerPurple)

	if m := g.Disable(4); m != domain.MarkerPurple {
		t.Fatalf("expected purple marker, got %v", m)
	}
	if m := g.Disable(4); m != domain.MarkerNone {
		t.Fatalf("second disable should carry nothing, got %v", m)
	}
	if g.Value(4) == 0 {
		t.Fatal("disabled tile keeps its value until collapse")
	}
	if g.NumberedCount() != 27 {
		t.Fatal("disabling must not change the numbered count")
	}
}

func TestClearTrimsPrefixEnd(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	g.Clear(26)
	if g.NumberedCount() != 26 {
		t.Fatalf("expected 26 numbered, got %d", g.NumberedCount())
	}
	if g.Value(26) != 0 || g.Active(26) {
		t.Fatal("cleared tile should be an empty slot")
	}
	g.Clear(26)
	if g.NumberedCount() != 26 {
		t.Fatal("clearing an empty slot should not change counters")
	}

	// Clearing 24 leaves 25 as the last digit; clearing 25 then trims both.
	g.Clear(24)
	if g.NumberedCount() != 26 {
		t.Fatalf("clearing inside the prefix must keep its end, got %d", g.NumberedCount())
	}
	g.Clear(25)
	if g.NumberedCount() != 24 || g.RowCount() != 3 {
		t.Fatalf("expected numbered=24 rows=3, got %d/%d", g.NumberedCount(), g.RowCount())
	}
}

func TestClearInsidePrefixKeepsCount(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	g.Clear(0)
	if g.NumberedCount() != 27 {
		t.Fatalf("expected 27 numbered, got %d", g.NumberedCount())
	}
	if g.Value(26) != 9 || !g.Active(26) {
		t.Fatal("last tile should be untouched")
	}
}

func TestReplenishCopiesActiveDigits(t *testing.T) {
	g := New(10)
	g.LoadValues([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2}, 0)
	g.Disable(0)
	g.Disable(9)

	idx := g.Replenish()

	if diff := cmp.Diff([]int{11, 12, 13, 14, 15, 16, 17, 18, 19}, idx); diff != "" {
		t.Fatalf("written indices mismatch (-want +got):\n%s", diff)
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 1, 2, 2, 3, 4, 5, 6, 7, 8, 9, 2, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, values(g)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if g.NumberedCount() != 20 || g.RowCount() != 3 {
		t.Fatalf("expected numbered=20 rows=3, got %d/%d", g.NumberedCount(), g.RowCount())
	}
}

func TestReplenishGrowsPastCapacity(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	g.Replenish()
	if g.NumberedCount() != 54 || g.RowCount() != 6 || g.Capacity() < 6 {
		t.Fatalf("unexpected counters: numbered=%d rows=%d capacity=%d", g.NumberedCount(), g.RowCount(), g.Capacity())
	}
}

func TestRowEmpty(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	for c := 0; c < 8; c++ {
		g.Disable(IndexOf(1, c))
	}
	if g.RowEmpty(1) {
		t.Fatal("row with one active tile is not empty")
	}
	g.Disable(IndexOf(1, 8))
	if !g.RowEmpty(1) {
		t.Fatal("row of disabled tiles is empty")
	}
	if !g.RowEmpty(5) {
		t.Fatal("padding row is empty")
	}
}

func TestOutOfRangePanics(t *testing.T) {
	g := New(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range index")
		}
	}()
	g.Tile(9)
}

func TestFromTilesRoundTrip(t *testing.T) {
	g := New(3)
	g.LoadValues(stage(), 0)
	g.SetMarker(3, domain.MarkerPink)
	g.Disable(0)

	h := FromTiles(g.Tiles(), g.NumberedCount())
	if diff := cmp.Diff(g.Tiles(), h.Tiles()); diff != "" {
		t.Fatalf("restored tiles mismatch (-want +got):\n%s", diff)
	}
	if h.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", h.RowCount())
	}
}
