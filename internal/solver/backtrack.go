package solver

import (
	"context"
	"time"

	"svw.info/pairs/internal/match"
	"svw.info/pairs/internal/ports"
)

// BacktrackingMatcher searches for disjoint pairs by always committing to the
// lowest unmatched tile that still has a partner, branching over each of its
// partners in index order and keeping the largest set seen.
type BacktrackingMatcher struct{}

func NewBacktrackingMatcher() *BacktrackingMatcher { return &BacktrackingMatcher{} }

func (m *BacktrackingMatcher) Match(ctx context.Context, values []int) ([][2]int, ports.Stats, error) {
	start := time.Now()
	n := len(values)
	adj := partners(values)
	used := make([]bool, n)
	var cur, best [][2]int
	nodes := 0

	var dfs func() bool
	dfs = func() bool {
		if ctx.Err() != nil {
			return true
		}
		nodes++
		if len(cur) > len(best) {
			best = append(best[:0], cur...)
			if 2*len(best) >= n-1 {
				return true // every tile is paired
			}
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			viable := false
			for _, j := range adj[i] {
				if used[j] {
					continue
				}
				viable = true
				used[i], used[j] = true, true
				cur = append(cur, [2]int{i, j})
				if dfs() {
					return true
				}
				cur = cur[:len(cur)-1]
				used[i], used[j] = false, false
			}
			if viable {
				return false
			}
		}
		return false
	}
	dfs()

	st := ports.Stats{Nodes: nodes, Duration: time.Since(start)}
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}
	return best, st, nil
}

// partners lists, for every tile, the tiles it can pair with on a board where
// every digit is still in play.
func partners(values []int) [][]int {
	b := match.Values(values)
	adj := make([][]int, len(values))
	for i := range values {
		for j := i + 1; j < len(values); j++ {
			if match.CanMatch(b, i, j) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return adj
}
