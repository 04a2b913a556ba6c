package solver

import (
	"context"
	"time"

	"svw.info/pairs/internal/ports"
)

// ExhaustiveMatcher computes a true maximum set of disjoint pairs by trying,
// for every tile, both leaving it alone and pairing it with each partner.
// It serves as the reference the generator output is checked against.
type ExhaustiveMatcher struct{}

func NewExhaustiveMatcher() *ExhaustiveMatcher { return &ExhaustiveMatcher{} }

func (m *ExhaustiveMatcher) Match(ctx context.Context, values []int) ([][2]int, ports.Stats, error) {
	start := time.Now()
	n := len(values)
	adj := partners(values)
	used := make([]bool, n)
	var cur, best [][2]int
	nodes := 0

	var dfs func(i, free int)
	dfs = func(i, free int) {
		if ctx.Err() != nil {
			return
		}
		nodes++
		for i < n && used[i] {
			i++
		}
		if len(cur)+free/2 <= len(best) {
			return
		}
		if i == n {
			best = append(best[:0], cur...)
			return
		}
		used[i] = true
		for _, j := range adj[i] {
			if j < i || used[j] {
				continue
			}
			used[j] = true
			cur = append(cur, [2]int{i, j})
			dfs(i+1, free-2)
			cur = cur[:len(cur)-1]
			used[j] = false
		}
		dfs(i+1, free-1)
		used[i] = false
	}
	dfs(0, n)

	st := ports.Stats{Nodes: nodes, Duration: time.Since(start)}
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}
	return best, st, nil
}
