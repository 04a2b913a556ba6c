package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/ports"
)

// Generate returns a shuffled stage of three copies of every digit whose
// disjoint matchable pairs number exactly target.
func (g *StageGenerator) Generate(ctx context.Context, seed int64, target int) ([]int, ports.Stats, error) {
	if target < MinTarget || target > MaxTarget {
		return nil, ports.Stats{}, ErrInvalidTarget
	}
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	var st ports.Stats
	var deadline time.Time
	if g.options.Timeout > 0 {
		deadline = start.Add(g.options.Timeout)
	}

	board := make([]int, domain.StageTiles)
	for st.Attempts < g.options.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, g.finish(st, start), err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		st.Attempts++

		fill(board)
		rng.Shuffle(len(board), func(i, j int) { board[i], board[j] = board[j], board[i] })

		pairs, ms, err := g.Matcher.Match(ctx, board)
		st.Nodes += ms.Nodes
		if err != nil {
			return nil, g.finish(st, start), err
		}
		switch {
		case len(pairs) < target:
			continue
		case len(pairs) == target:
			return board, g.finish(st, start), nil
		}

		ok, err := g.repair(ctx, board, pairs, target, &st)
		if err != nil {
			return nil, g.finish(st, start), err
		}
		if ok {
			return board, g.finish(st, start), nil
		}
	}
	return nil, g.finish(st, start), fmt.Errorf("%w: target %d after %d attempts", ErrGenerationFailed, target, st.Attempts)
}

// repair lowers the pair count one swap at a time. For each surplus pair it
// swaps one end, then the other, with every other tile and keeps the first
// swap that removes exactly one pair. The board is restored when a pair
// cannot be broken.
func (g *StageGenerator) repair(ctx context.Context, board []int, pairs [][2]int, target int, st *ports.Stats) (bool, error) {
	orig := make([]int, len(board))
	copy(orig, board)
	count := len(pairs)

	for _, p := range pairs {
		if count <= target {
			break
		}
		fixed := false
		for _, src := range p {
			for t := range board {
				if t == p[0] || t == p[1] || board[t] == board[src] {
					continue
				}
				board[src], board[t] = board[t], board[src]
				found, ms, err := g.Matcher.Match(ctx, board)
				st.Nodes += ms.Nodes
				if err != nil {
					return false, err
				}
				if len(found) == count-1 {
					count--
					fixed = true
					break
				}
				board[src], board[t] = board[t], board[src]
			}
			if fixed {
				break
			}
		}
		if !fixed {
			copy(board, orig)
			return false, nil
		}
	}
	return count == target, nil
}

func (g *StageGenerator) finish(st ports.Stats, start time.Time) ports.Stats {
	st.Duration = time.Since(start)
	return st
}

// fill writes 1..9 three times in order.
func fill(board []int) {
	for i := range board {
		board[i] = i/3 + 1
	}
}
