package mission

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/grid"
)

const (
	minKinds  = 1
	maxKinds  = 3
	minTarget = 3
	maxTarget = 5
)

// Roll picks one to three distinct marker kinds, each to be collected three
// to five times.
func Roll(rng *rand.Rand) []domain.Mission {
	kinds := append([]domain.MarkerKind(nil), domain.MarkerKinds...)
	rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })
	n := minKinds + rng.Intn(maxKinds-minKinds+1)

	out := make([]domain.Mission, 0, n)
	for _, k := range kinds[:n] {
		t := minTarget + rng.Intn(maxTarget-minTarget+1)
		out = append(out, domain.Mission{Kind: k, Target: t, Remaining: t})
	}
	return out
}

// Place attaches markers to randomly chosen active tiles among indices. At
// most limit markers are placed, only for kinds still short of their target
// once markers already on the board are counted, and never next to another
// marker. It returns the indices that received a marker.
func Place(rng *rand.Rand, g *grid.Grid, indices []int, missions []domain.Mission, limit int) []int {
	budget := make(map[domain.MarkerKind]int)
	for _, m := range missions {
		if m.Remaining > 0 {
			budget[m.Kind] = m.Remaining
		}
	}

	avoid := mapset.New[int]()
	for i := 0; i < g.Len(); i++ {
		if m := g.Tile(i).Marker; m != domain.MarkerNone {
			budget[m]--
			avoid.Put(i)
			for _, n := range neighbours(i, g.Len()) {
				avoid.Put(n)
			}
		}
	}

	cand := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < g.Len() && g.Tile(i).Numbered() {
			cand = append(cand, i)
		}
	}
	rng.Shuffle(len(cand), func(a, b int) { cand[a], cand[b] = cand[b], cand[a] })

	var placed []int
	for _, i := range cand {
		if len(placed) >= limit {
			break
		}
		if avoid.Has(i) {
			continue
		}
		kind, ok := pick(rng, missions, budget)
		if !ok {
			break
		}
		g.SetMarker(i, kind)
		budget[kind]--
		placed = append(placed, i)
		avoid.Put(i)
		for _, n := range neighbours(i, g.Len()) {
			avoid.Put(n)
		}
	}
	return placed
}

// pick chooses a kind that still has budget, in mission order with a random
// start so no kind is favoured.
func pick(rng *rand.Rand, missions []domain.Mission, budget map[domain.MarkerKind]int) (domain.MarkerKind, bool) {
	if len(missions) == 0 {
		return domain.MarkerNone, false
	}
	off := rng.Intn(len(missions))
	for k := range missions {
		m := missions[(off+k)%len(missions)]
		if budget[m.Kind] > 0 {
			return m.Kind, true
		}
	}
	return domain.MarkerNone, false
}

// neighbours returns the king-move neighbours of i plus its reading-order
// neighbours, which pair across row ends.
func neighbours(i, n int) []int {
	r, c := grid.RowOf(i), grid.ColOf(i)
	out := make([]int, 0, 10)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			rr, cc := r+dr, c+dc
			if rr < 0 || cc < 0 || cc >= domain.Cols {
				continue
			}
			if j := grid.IndexOf(rr, cc); j < n {
				out = append(out, j)
			}
		}
	}
	if c == 0 && i > 0 {
		out = append(out, i-1)
	}
	if c == domain.Cols-1 && i+1 < n {
		out = append(out, i+1)
	}
	return out
}
