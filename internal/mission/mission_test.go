package mission

import (
	"math/rand"
	"testing"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/grid"
)

func TestRollRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 100; round++ {
		ms := Roll(rng)
		if len(ms) < 1 || len(ms) > 3 {
			t.Fatalf("expected 1..3 missions, got %d", len(ms))
		}
		seen := make(map[domain.MarkerKind]bool)
		for _, m := range ms {
			if seen[m.Kind] {
				t.Fatalf("duplicate kind %v", m.Kind)
			}
			seen[m.Kind] = true
			if m.Target < 3 || m.Target > 5 || m.Remaining != m.Target {
				t.Fatalf("bad mission %+v", m)
			}
		}
	}
}

func loaded() (*grid.Grid, []int) {
	g := grid.New(3)
	vals := make([]int, 27)
	idx := make([]int, 27)
	for i := range vals {
		vals[i] = 1 + i%9
		idx[i] = i
	}
	g.LoadValues(vals, 0)
	return g, idx
}

func TestPlaceRespectsCapAndSpacing(t *testing.T) {
	ms := []domain.Mission{
		{Kind: domain.MarkerPink, Target: 5, Remaining: 5},
		{Kind: domain.MarkerOrange, Target: 5, Remaining: 5},
	}
	for seed := int64(0); seed < 50; seed++ {
		g, idx := loaded()
		placed := Place(rand.New(rand.NewSource(seed)), g, idx, ms, 2)
		if len(placed) == 0 || len(placed) > 2 {
			t.Fatalf("seed %d: expected 1..2 markers, got %v", seed, placed)
		}
		for _, i := range placed {
			for _, n := range neighbours(i, g.Len()) {
				if g.Tile(n).Marker != domain.MarkerNone {
					t.Fatalf("seed %d: markers at %d and %d touch", seed, i, n)
				}
			}
		}
	}
}

func TestPlaceHonoursBudget(t *testing.T) {
	g, idx := loaded()
	g.SetMarker(0, domain.MarkerPurple)
	ms := []domain.Mission{
		{Kind: domain.MarkerPurple, Target: 3, Remaining: 1},
		{Kind: domain.MarkerPink, Target: 3, Remaining: 0},
	}
	placed := Place(rand.New(rand.NewSource(1)), g, idx, ms, 3)
	if len(placed) != 0 {
		t.Fatalf("purple is already on the board and pink is done, got %v", placed)
	}
}

func TestPlaceSkipsInactiveTiles(t *testing.T) {
	g, _ := loaded()
	g.Disable(4)
	ms := []domain.Mission{{Kind: domain.MarkerPink, Target: 5, Remaining: 5}}
	placed := Place(rand.New(rand.NewSource(1)), g, []int{4, 60}, ms, 3)
	if len(placed) != 0 {
		t.Fatalf("expected nothing placed, got %v", placed)
	}
}

func TestNeighboursIncludeRowWrap(t *testing.T) {
	got := neighbours(8, 27)
	want := map[int]bool{7: true, 16: true, 17: true, 9: true}
	if len(got) != len(want) {
		t.Fatalf("unexpected neighbours %v", got)
	}
	for _, n := range got {
		if !want[n] {
			t.Fatalf("unexpected neighbour %d in %v", n, got)
		}
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker([]domain.Mission{
		{Kind: domain.MarkerPink, Target: 1, Remaining: 1},
		{Kind: domain.MarkerOrange, Target: 2, Remaining: 2},
	})
	if tr.Collect(domain.MarkerPurple) {
		t.Fatal("purple has no mission")
	}
	tr.Collect(domain.MarkerPink)
	if tr.Collect(domain.MarkerPink) {
		t.Fatal("pink mission is already complete")
	}
	if tr.Open() != 1 || tr.Done() {
		t.Fatalf("expected one open mission, got %d", tr.Open())
	}
	tr.Collect(domain.MarkerOrange)
	tr.Collect(domain.MarkerOrange)
	if !tr.Done() {
		t.Fatal("all missions collected")
	}
}
