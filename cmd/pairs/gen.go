package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/generator"
	"svw.info/pairs/internal/solver"
	"svw.info/pairs/internal/validator"
)

var (
	numStages  int
	target     int
	seed       int64
	timeout    time.Duration
	verify     bool
	genMatcher string
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate stage boards",
		Long: `Generate one or more 27-tile stage boards with an exact number of pairs.

Examples:
  pairs gen --target 3
  pairs gen -n 5 --target 1 --seed 42
  pairs gen --target 2 --verify --timeout 15s`,
		RunE: runGen,
	}
	genCmd.Flags().IntVarP(&numStages, "number", "n", 1, "Number of boards to generate")
	genCmd.Flags().IntVarP(&target, "target", "t", domain.DefaultSchedule.Target(1), fmt.Sprintf("Pairs per board %d-%d", generator.MinTarget, generator.MaxTarget))
	genCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the first board, 0 uses the clock")
	genCmd.Flags().DurationVar(&timeout, "timeout", generator.DefaultOptions().Timeout, "Generation timeout per board")
	genCmd.Flags().BoolVar(&verify, "verify", false, "Recount pairs exhaustively and validate each board")
	genCmd.Flags().StringVar(&genMatcher, "matcher", "first", "pair counter: first|exhaustive")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	if target < generator.MinTarget || target > generator.MaxTarget {
		return fmt.Errorf("target (%d) must be between %d and %d", target, generator.MinTarget, generator.MaxTarget)
	}
	if numStages < 1 {
		return fmt.Errorf("number (%d) must be positive", numStages)
	}

	opts := generator.DefaultOptions()
	opts.Timeout = timeout
	gen := generator.New(newMatcher(genMatcher), opts)
	ref := solver.NewExhaustiveMatcher()
	val := validator.New()

	base := seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for i := 0; i < numStages; i++ {
		s := base + int64(i)
		vals, st, err := gen.Generate(ctx, s, target)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		logger.Debug("board generated", "seed", s, "attempts", st.Attempts, "nodes", st.Nodes, "dur", st.Duration)

		fmt.Fprintf(out, "Board #%d (seed %d, pairs %d, attempts %d):\n", i+1, s, target, st.Attempts)
		printBoard(out, vals)

		if verify {
			if ok, conflicts := val.ValidateStage(vals); !ok {
				return fmt.Errorf("board #%d failed validation: %v", i+1, conflicts)
			}
			pairs, _, err := ref.Match(ctx, vals)
			if err != nil {
				return err
			}
			if len(pairs) != target {
				return fmt.Errorf("board #%d has %d pairs, expected %d", i+1, len(pairs), target)
			}
			fmt.Fprintf(out, "verified: %v\n", pairs)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func printBoard(w io.Writer, vals []int) {
	for r := 0; r*domain.Cols < len(vals); r++ {
		row := vals[r*domain.Cols : min((r+1)*domain.Cols, len(vals))]
		parts := make([]string, len(row))
		for k, v := range row {
			parts[k] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
}
