package ports

import (
	"context"
	"time"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/match"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Attempts int
	Duration time.Duration
}

// Matcher finds a set of disjoint matchable pairs on a flat stage board.
type Matcher interface {
	Match(ctx context.Context, values []int) ([][2]int, Stats, error)
}

// Generator creates stage boards with an exact number of matchable pairs.
type Generator interface {
	Generate(ctx context.Context, seed int64, target int) ([]int, Stats, error)
}

// Validator checks a generated stage board.
type Validator interface {
	ValidateStage(values []int) (ok bool, conflicts []domain.Conflict)
}

// Hinter returns a pair that can be removed right now.
type Hinter interface {
	Hint(ctx context.Context, b match.Board) (domain.Hint, bool, error)
}

// Observer receives session events. Implementations must not block.
type Observer interface {
	Notify(e domain.Event)
}

// Storage persists and retrieves game snapshots as JSON.
type Storage interface {
	Save(ctx context.Context, s *domain.Snapshot) error
	Load(ctx context.Context, id string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.SnapshotMeta, error)
}
