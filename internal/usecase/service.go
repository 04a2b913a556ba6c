package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/ports"
	"svw.info/pairs/internal/session"
)

var (
	errNotConfigured = errors.New("usecase dependency not configured")
	// ErrGameNotFound is returned for ids that name no live game.
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidStage is returned when a generated stage fails validation.
	ErrInvalidStage = errors.New("generated stage failed validation")
)

// game serialises every move on one session.
type game struct {
	mu      sync.Mutex
	s       *session.Session
	name    string
	created int64
	seen    atomic.Int64 // unix nanos of the last lookup
}

// Service holds the live games and the providers they need.
type Service struct {
	Generator ports.Generator
	Validator ports.Validator
	Hinter    ports.Hinter
	Storage   ports.Storage
	Observer  ports.Observer

	// Options is the template each new session starts from. Seed and
	// Observer are filled in per game.
	Options session.Options
	Log     *slog.Logger

	mu    sync.RWMutex
	games map[string]*game
	now   func() time.Time
}

func NewService(g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage, obs ports.Observer, opts session.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Generator: g,
		Validator: v,
		Hinter:    h,
		Storage:   st,
		Observer:  obs,
		Options:   opts,
		Log:       logger,
		games:     make(map[string]*game),
		now:       time.Now,
	}
}

func (u *Service) newSession(id string, seed int64) *session.Session {
	opts := u.Options
	opts.Seed = seed
	opts.Observer = u.Observer
	opts.Logger = u.Log
	return session.New(id, u.Generator, opts)
}

func (u *Service) lookup(id string) (*game, error) {
	u.mu.RLock()
	g, ok := u.games[id]
	u.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	g.seen.Store(u.now().UnixNano())
	return g, nil
}

func (u *Service) put(id string, g *game) {
	g.seen.Store(u.now().UnixNano())
	u.mu.Lock()
	u.games[id] = g
	u.mu.Unlock()
}

// Sweep drops live games nobody has touched for longer than maxIdle and
// returns how many went. Saved copies in storage are left alone.
func (u *Service) Sweep(maxIdle time.Duration) int {
	cutoff := u.now().Add(-maxIdle).UnixNano()
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for id, g := range u.games {
		if g.seen.Load() < cutoff {
			delete(u.games, id)
			n++
		}
	}
	if n > 0 {
		u.Log.Info("idle games evicted", "count", n, "live", len(u.games))
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (u *Service) StartSweeper(ctx context.Context, every, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				u.Sweep(maxIdle)
			}
		}
	}()
}

// Live returns the number of games held in memory.
func (u *Service) Live() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.games)
}

func (u *Service) snapshot(g *game) domain.Snapshot {
	snap := g.s.Snapshot()
	snap.Name = g.name
	snap.CreatedAt = g.created
	return snap
}

// NewGame deals a fresh level. A zero seed picks one from the clock.
func (u *Service) NewGame(ctx context.Context, seed int64) (domain.Snapshot, error) {
	if u.Generator == nil {
		return domain.Snapshot{}, errNotConfigured
	}
	if seed == 0 {
		seed = u.now().UnixNano()
	}
	id := uuid.NewString()
	g := &game{s: u.newSession(id, seed), created: u.now().UnixNano()}
	if err := g.s.Start(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	u.put(id, g)
	u.Log.Info("game created", "game", id, "seed", seed)
	return u.snapshot(g), nil
}

func (u *Service) Get(id string) (domain.Snapshot, error) {
	g, err := u.lookup(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return u.snapshot(g), nil
}

func (u *Service) Select(ctx context.Context, id string, i int) (session.MoveResult, domain.Snapshot, error) {
	g, err := u.lookup(id)
	if err != nil {
		return session.MoveResult{}, domain.Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.s.Select(ctx, i)
	return res, u.snapshot(g), err
}

func (u *Service) Pair(ctx context.Context, id string, a, b int) (session.MoveResult, domain.Snapshot, error) {
	g, err := u.lookup(id)
	if err != nil {
		return session.MoveResult{}, domain.Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	res, err := g.s.Pair(ctx, a, b)
	return res, u.snapshot(g), err
}

func (u *Service) AddTiles(ctx context.Context, id string) ([]int, domain.Snapshot, error) {
	g, err := u.lookup(id)
	if err != nil {
		return nil, domain.Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	idx, err := g.s.AddTiles(ctx)
	return idx, u.snapshot(g), err
}

func (u *Service) Restart(ctx context.Context, id string) (domain.Snapshot, error) {
	g, err := u.lookup(id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.s.Restart(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	return u.snapshot(g), nil
}

func (u *Service) Hint(ctx context.Context, id string) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	g, err := u.lookup(id)
	if err != nil {
		return domain.Hint{}, false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return u.Hinter.Hint(ctx, g.s.Grid())
}

// Generate deals a standalone stage and, when a validator is configured,
// checks it before returning.
func (u *Service) Generate(ctx context.Context, seed int64, target int) ([]int, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	vals, st, err := u.Generator.Generate(ctx, seed, target)
	if err != nil {
		return nil, st, err
	}
	if u.Validator != nil {
		if ok, conflicts := u.Validator.ValidateStage(vals); !ok {
			return nil, st, fmt.Errorf("%w: %v", ErrInvalidStage, conflicts)
		}
	}
	return vals, st, nil
}

// Persistence

func (u *Service) Save(ctx context.Context, id string) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	g, err := u.lookup(id)
	if err != nil {
		return err
	}
	g.mu.Lock()
	snap := u.snapshot(g)
	g.mu.Unlock()
	return u.Storage.Save(ctx, &snap)
}

// Load brings a stored game back to life under its saved id, replacing any
// live game with the same id.
func (u *Service) Load(ctx context.Context, id string) (domain.Snapshot, error) {
	if u.Storage == nil {
		return domain.Snapshot{}, errNotConfigured
	}
	snap, err := u.Storage.Load(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if snap.ID == "" {
		snap.ID = id
	}
	g := &game{s: u.newSession(snap.ID, snap.Seed), name: snap.Name, created: snap.CreatedAt}
	if err := g.s.Restore(*snap); err != nil {
		return domain.Snapshot{}, err
	}
	u.put(snap.ID, g)
	return u.snapshot(g), nil
}

func (u *Service) List(ctx context.Context) ([]domain.SnapshotMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
