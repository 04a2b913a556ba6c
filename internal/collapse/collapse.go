package collapse

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"svw.info/pairs/internal/grid"
)

// Shift records that the row originally at From now sits at To.
type Shift struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Result describes one collapse pass.
type Result struct {
	Cleared  []int   `json:"cleared,omitempty"` // original row indices, ascending
	RowCount int     `json:"rowCount"`
	Removed  int     `json:"removed"` // numbered tiles dropped with the rows
	Shifts   []Shift `json:"shifts,omitempty"`
}

// Collapse removes every empty row in play, top row first, pulling the rows
// beneath it up. The same index is rescanned after each removal.
func Collapse(g *grid.Grid) Result {
	var res Result
	cleared := mapset.New[int]()

	origin := make([]int, g.RowCount())
	for r := range origin {
		origin[r] = r
	}
	window := len(origin)
	for r := 0; r < min(window, g.RowCount()); {
		if !g.RowEmpty(r) {
			r++
			continue
		}
		n := g.CountValues(r)
		cleared.Put(origin[r])
		g.ShiftUp(r)
		g.RemoveNumbered(n)
		res.Removed += n
		origin = append(origin[:r], origin[r+1:]...)
		window--
	}

	res.RowCount = g.RowCount()
	res.Cleared = sorted(cleared)
	for to, from := range origin {
		if from != to {
			res.Shifts = append(res.Shifts, Shift{From: from, To: to})
		}
	}
	return res
}

// CollapseBatch finds all empty rows first and removes them bottom-up. It
// leaves the grid exactly as Collapse would.
func CollapseBatch(g *grid.Grid) Result {
	var res Result
	rows := g.RowCount()
	cleared := mapset.New[int]()
	var empty []int
	for r := 0; r < rows; r++ {
		if g.RowEmpty(r) {
			empty = append(empty, r)
			cleared.Put(r)
		}
	}
	for k := len(empty) - 1; k >= 0; k-- {
		n := g.CountValues(empty[k])
		g.ShiftUp(empty[k])
		g.RemoveNumbered(n)
		res.Removed += n
	}

	res.RowCount = g.RowCount()
	res.Cleared = sorted(cleared)
	for r := 0; r < rows; r++ {
		if cleared.Has(r) {
			continue
		}
		if off := offset(empty, r); off > 0 {
			res.Shifts = append(res.Shifts, Shift{From: r, To: r - off})
		}
	}
	return res
}

// offset counts the cleared rows above row.
func offset(cleared []int, row int) int {
	return sort.SearchInts(cleared, row)
}

func sorted(s mapset.Set[int]) []int {
	if s.Size() == 0 {
		return nil
	}
	out := make([]int, 0, s.Size())
	s.Each(func(r int) {
		out = append(out, r)
	})
	sort.Ints(out)
	return out
}
