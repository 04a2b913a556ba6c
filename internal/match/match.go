// Package match decides whether two tiles may be removed together.
//
// Two tiles pair when their digits are equal or sum to ten and no active tile
// stands between them. Tiles on a common row, column or 45° diagonal are
// checked along that line; any other pair is checked along the flattened
// row-major order, which lets the end of one row reach the start of the next.
package match

import (
	"fmt"
	"sort"

	"svw.info/pairs/internal/domain"
)

const cols = domain.Cols

// Board is the read-only view the predicate needs.
type Board interface {
	Len() int
	Value(i int) int
	Active(i int) bool
}

// Values is a flat board where every nonzero digit is active.
type Values []int

func (v Values) Len() int          { return len(v) }
func (v Values) Value(i int) int   { return v[i] }
func (v Values) Active(i int) bool { return v[i] != 0 }

// Compatible applies the value rule only.
func Compatible(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	return a == b || a+b == 10
}

// Step returns the unit index offset walking from i toward j when both lie on
// a common row, column or diagonal, and 0 otherwise.
func Step(i, j int) int {
	r1, c1 := i/cols, i%cols
	r2, c2 := j/cols, j%cols
	dr, dc := r2-r1, c2-c1
	switch {
	case dr == 0:
		return sign(dc)
	case dc == 0:
		return sign(dr) * cols
	case dr == dc:
		return sign(dr) * (cols + 1)
	case dr == -dc:
		return sign(dr) * (cols - 1)
	default:
		return 0
	}
}

// CanMatch reports whether tiles i and j may be paired on b.
func CanMatch(b Board, i, j int) bool {
	check(b, i, j)
	if !b.Active(i) || !b.Active(j) {
		return false
	}
	if !Compatible(b.Value(i), b.Value(j)) {
		return false
	}
	open := true
	walk(b, i, j, func(k int) bool {
		if b.Active(k) {
			open = false
		}
		return open
	})
	return open
}

// Blockers lists the active tiles that stop i and j from pairing. It is
// advisory: a nil result with CanMatch false means the values never pair.
func Blockers(b Board, i, j int) []int {
	check(b, i, j)
	if !Compatible(b.Value(i), b.Value(j)) {
		return nil
	}
	var out []int
	walk(b, i, j, func(k int) bool {
		if b.Active(k) {
			out = append(out, k)
		}
		return true
	})
	return out
}

// Pairs returns every currently matchable pair with i < j, ordered by i then j.
func Pairs(b Board) [][2]int {
	var out [][2]int
	for i := 0; i < b.Len(); i++ {
		for _, j := range partners(b, i) {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// First returns the matchable pair with the lowest indices.
func First(b Board) ([2]int, bool) {
	for i := 0; i < b.Len(); i++ {
		if ps := partners(b, i); len(ps) > 0 {
			return [2]int{i, ps[0]}, true
		}
	}
	return [2]int{}, false
}

// HasMove reports whether at least one pair can be removed.
func HasMove(b Board) bool {
	_, ok := First(b)
	return ok
}

// partners returns, in ascending order, the tiles after i that pair with it.
// Only the first active tile along each forward line and the next active
// tile in reading order can qualify, so those are the only ones checked.
func partners(b Board, i int) []int {
	if !b.Active(i) || b.Value(i) == 0 {
		return nil
	}
	n := b.Len()
	r, c := i/cols, i%cols
	var cand []int
	probe := func(dr, dc int) {
		for rr, cc := r+dr, c+dc; cc >= 0 && cc < cols; rr, cc = rr+dr, cc+dc {
			k := rr*cols + cc
			if k >= n {
				return
			}
			if b.Active(k) {
				cand = append(cand, k)
				return
			}
		}
	}
	probe(0, 1)
	probe(1, 0)
	probe(1, 1)
	probe(1, -1)
	for k := i + 1; k < n; k++ {
		if b.Active(k) {
			cand = append(cand, k)
			break
		}
	}

	sort.Ints(cand)
	var out []int
	for idx, k := range cand {
		if idx > 0 && cand[idx-1] == k {
			continue
		}
		if CanMatch(b, i, k) {
			out = append(out, k)
		}
	}
	return out
}

// walk visits the indices strictly between i and j, stopping when fn
// returns false.
func walk(b Board, i, j int, fn func(int) bool) {
	if step := Step(i, j); step != 0 {
		for k := i + step; k != j; k += step {
			if !fn(k) {
				return
			}
		}
		return
	}
	lo, hi := min(i, j)+1, max(i, j)
	for k := lo; k < hi; k++ {
		if !fn(k) {
			return
		}
	}
}

func check(b Board, i, j int) {
	n := b.Len()
	if i < 0 || i >= n || j < 0 || j >= n {
		panic(fmt.Sprintf("match: index pair (%d,%d) out of range [0,%d)", i, j, n))
	}
	if i == j {
		panic(fmt.Sprintf("match: tile %d paired with itself", i))
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
