package grid

import (
	"fmt"

	"svw.info/pairs/internal/domain"
)

const cols = domain.Cols

// Grid is the session board: a flat row-major run of tiles plus the counters
// that say how much of it is in play. Capacity only grows in whole rows.
type Grid struct {
	tiles    []domain.Tile
	numbered int
	rows     int
}

// New pre-instantiates capacityRows rows of empty, disabled tiles.
func New(capacityRows int) *Grid {
	g := &Grid{}
	g.AppendRows(capacityRows)
	return g
}

// FromTiles rebuilds a grid from a snapshot. The counters are taken as given.
func FromTiles(tiles []domain.Tile, numbered int) *Grid {
	g := &Grid{}
	g.AppendRows((len(tiles) + cols - 1) / cols)
	for i, t := range tiles {
		t.Index = i
		g.tiles[i] = t
	}
	g.numbered = numbered
	g.recount()
	return g
}

func (g *Grid) Len() int           { return len(g.tiles) }
func (g *Grid) NumberedCount() int { return g.numbered }
func (g *Grid) RowCount() int      { return g.rows }

// Capacity returns the number of rows currently instantiated.
func (g *Grid) Capacity() int { return len(g.tiles) / cols }

func (g *Grid) Tile(i int) domain.Tile {
	g.check(i)
	return g.tiles[i]
}

func (g *Grid) Value(i int) int {
	g.check(i)
	return g.tiles[i].Value
}

func (g *Grid) Active(i int) bool {
	g.check(i)
	return g.tiles[i].Status == domain.Active
}

// Tiles returns a copy of every tile.
func (g *Grid) Tiles() []domain.Tile {
	out := make([]domain.Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

func RowOf(i int) int          { return i / cols }
func ColOf(i int) int          { return i % cols }
func IndexOf(row, col int) int { return row*cols + col }

// RowEmpty reports whether no tile of row still holds an active digit.
func (g *Grid) RowEmpty(row int) bool {
	start := IndexOf(row, 0)
	g.check(start + cols - 1)
	for _, t := range g.tiles[start : start+cols] {
		if t.Numbered() {
			return false
		}
	}
	return true
}

// AppendRows grows capacity by count rows of empty tiles.
func (g *Grid) AppendRows(count int) {
	for r := 0; r < count; r++ {
		base := len(g.tiles)
		for c := 0; c < cols; c++ {
			g.tiles = append(g.tiles, domain.Tile{Index: base + c, Status: domain.Disabled})
		}
	}
}

// ensure grows capacity so that index n-1 is addressable.
func (g *Grid) ensure(n int) {
	if n > len(g.tiles) {
		g.AppendRows((n - len(g.tiles) + cols - 1) / cols)
	}
}

// LoadValues writes values starting at start. Written tiles become active
// and lose any marker.
func (g *Grid) LoadValues(values []int, start int) {
	if start < 0 {
		panic(fmt.Sprintf("grid: negative start %d", start))
	}
	for _, v := range values {
		if v < 0 || v > 9 {
			panic(fmt.Sprintf("grid: value %d out of range [0,9]", v))
		}
	}
	g.ensure(start + len(values))
	for k, v := range values {
		i := start + k
		st := domain.Active
		if v == 0 {
			st = domain.Disabled
		}
		g.tiles[i] = domain.Tile{Index: i, Value: v, Status: st}
	}
	if end := start + len(values); end > g.numbered {
		g.numbered = end
	}
	g.recount()
}

// Disable retires a tile after a match and hands back the marker it carried.
func (g *Grid) Disable(i int) domain.MarkerKind {
	g.check(i)
	t := &g.tiles[i]
	if t.Status == domain.Disabled {
		return domain.MarkerNone
	}
	m := t.Marker
	t.Status = domain.Disabled
	t.Marker = domain.MarkerNone
	return m
}

// Clear turns a tile into an empty slot. The numbered prefix only shrinks
// when the cleared tile ends it, and then past any trailing empty slots, so
// every index at or beyond the prefix still holds 0.
func (g *Grid) Clear(i int) {
	g.check(i)
	g.tiles[i] = domain.Tile{Index: i, Status: domain.Disabled}
	if i != g.numbered-1 {
		return
	}
	for g.numbered > 0 && g.tiles[g.numbered-1].Value == 0 {
		g.numbered--
	}
	g.recount()
}

// SetMarker attaches a collectible to an active tile.
func (g *Grid) SetMarker(i int, m domain.MarkerKind) {
	g.check(i)
	if !g.tiles[i].Numbered() {
		panic(fmt.Sprintf("grid: marker on inactive tile %d", i))
	}
	g.tiles[i].Marker = m
}

// Replenish copies every active digit, in board order, behind the numbered
// prefix and returns the indices it wrote.
func (g *Grid) Replenish() []int {
	var vals []int
	for _, t := range g.tiles {
		if t.Numbered() {
			vals = append(vals, t.Value)
		}
	}
	start := g.numbered
	g.LoadValues(vals, start)
	idx := make([]int, len(vals))
	for k := range vals {
		idx[k] = start + k
	}
	return idx
}

// Reset empties every tile and zeroes the counters, keeping capacity.
func (g *Grid) Reset() {
	for i := range g.tiles {
		g.tiles[i] = domain.Tile{Index: i, Status: domain.Disabled}
	}
	g.numbered = 0
	g.rows = 0
}

// ShiftUp moves every row below row one row up and empties the row that was
// last in play. Call RemoveNumbered afterwards so the row count still covers
// the rows being moved.
func (g *Grid) ShiftUp(row int) {
	last := g.rows - 1
	for r := row + 1; r <= last; r++ {
		for c := 0; c < cols; c++ {
			from, to := IndexOf(r, c), IndexOf(r-1, c)
			t := g.tiles[from]
			t.Index = to
			g.tiles[to] = t
		}
	}
	if last >= 0 {
		for c := 0; c < cols; c++ {
			i := IndexOf(last, c)
			g.tiles[i] = domain.Tile{Index: i, Status: domain.Disabled}
		}
	}
}

// RemoveNumbered lowers the numbered count by n and recomputes the row count.
func (g *Grid) RemoveNumbered(n int) {
	g.numbered -= n
	if g.numbered < 0 {
		g.numbered = 0
	}
	g.recount()
}

// CountValues returns how many tiles of row still hold a digit, matched or not.
func (g *Grid) CountValues(row int) int {
	n := 0
	for c := 0; c < cols; c++ {
		if g.tiles[IndexOf(row, c)].Value != 0 {
			n++
		}
	}
	return n
}

func (g *Grid) recount() {
	g.rows = (g.numbered + cols - 1) / cols
	g.ensure(g.rows * cols)
}

func (g *Grid) check(i int) {
	if i < 0 || i >= len(g.tiles) {
		panic(fmt.Sprintf("grid: index %d out of range [0,%d)", i, len(g.tiles)))
	}
}
