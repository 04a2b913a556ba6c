// Package session drives one player's game: selection, pairing, adding tiles
// and moving between stages. Engine state is updated in full before any
// observer hears about it; observers never gate the game.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"svw.info/pairs/internal/collapse"
	"svw.info/pairs/internal/domain"
	"svw.info/pairs/internal/grid"
	"svw.info/pairs/internal/match"
	"svw.info/pairs/internal/mission"
	"svw.info/pairs/internal/ports"
	"svw.info/pairs/internal/validator"
)

var (
	ErrInvalidIndex = errors.New("tile index out of range")
	ErrTileInactive = errors.New("tile is not active")
	ErrNoAdds       = errors.New("no add charges left")
	ErrFinished     = errors.New("level is over")
	ErrBadSnapshot  = errors.New("inconsistent snapshot")
)

const noSelection = -1

// Options configures a session.
type Options struct {
	Schedule     domain.Schedule
	AddsPerStage int
	CapacityRows int
	Seed         int64
	Observer     ports.Observer
	Logger       *slog.Logger
}

// DefaultOptions mirrors the shipped game: targets 3, 2, 1, six add charges
// per stage and ten rows ready on screen.
func DefaultOptions() Options {
	return Options{
		Schedule:     domain.DefaultSchedule,
		AddsPerStage: 6,
		CapacityRows: 10,
	}
}

// MoveResult reports what a selection or pairing did.
type MoveResult struct {
	Matched       bool                `json:"matched"`
	Selected      int                 `json:"selected"`
	Tiles         []int               `json:"tiles,omitempty"`
	Blockers      []int               `json:"blockers,omitempty"`
	Markers       []domain.MarkerKind `json:"markers,omitempty"`
	Collapse      *collapse.Result    `json:"collapse,omitempty"`
	StageComplete bool                `json:"stageComplete,omitempty"`
	Stage         int                 `json:"stage"`
	Outcome       domain.Outcome      `json:"outcome"`
}

// Session owns the grid of a single game.
type Session struct {
	ID string

	gen     ports.Generator
	opts    Options
	log     *slog.Logger
	rng     *rand.Rand
	grid    *grid.Grid
	tracker *mission.Tracker

	seed     int64
	stage    int
	adds     int
	selected int
	outcome  domain.Outcome
}

// New creates an idle session; call Start to deal the first stage.
func New(id string, gen ports.Generator, opts Options) *Session {
	def := DefaultOptions()
	if len(opts.Schedule) == 0 {
		opts.Schedule = def.Schedule
	}
	if opts.AddsPerStage < 0 {
		opts.AddsPerStage = 0
	}
	if opts.CapacityRows <= 0 {
		opts.CapacityRows = def.CapacityRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		ID:       id,
		gen:      gen,
		opts:     opts,
		log:      logger.With("game", id),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		grid:     grid.New(opts.CapacityRows),
		seed:     opts.Seed,
		selected: noSelection,
	}
}

// Grid exposes the board read-only to queries such as hints.
func (s *Session) Grid() match.Board { return s.grid }

func (s *Session) Stage() int              { return s.stage }
func (s *Session) AddsLeft() int           { return s.adds }
func (s *Session) Outcome() domain.Outcome { return s.outcome }
func (s *Session) Selected() int           { return s.selected }

// Start begins a new level: fresh missions and stage 1.
func (s *Session) Start(ctx context.Context) error {
	s.tracker = mission.NewTracker(mission.Roll(s.rng))
	s.stage = 0
	s.outcome = domain.Playing
	s.selected = noSelection
	if err := s.nextStage(ctx); err != nil {
		return err
	}
	s.emit(domain.Event{Kind: domain.EventLevelStart, Stage: s.stage})
	return nil
}

// Restart abandons the current level and starts another.
func (s *Session) Restart(ctx context.Context) error {
	return s.Start(ctx)
}

func (s *Session) nextStage(ctx context.Context) error {
	stage := s.stage + 1
	target := s.opts.Schedule.Target(stage)
	values, st, err := s.gen.Generate(ctx, s.rng.Int63(), target)
	if err != nil {
		return fmt.Errorf("generate stage %d: %w", stage, err)
	}
	s.log.Debug("stage generated", "stage", stage, "target", target,
		"attempts", st.Attempts, "nodes", st.Nodes, "dur", st.Duration)

	s.stage = stage
	s.adds = s.opts.AddsPerStage
	s.selected = noSelection
	s.grid.Reset()
	s.grid.LoadValues(values, 0)
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	mission.Place(s.rng, s.grid, idx, s.tracker.Missions, s.tracker.Open())
	s.log.Info("stage start", "stage", stage, "target", target)
	return nil
}

// Select applies a click on tile i. Clicking the selected tile clears the
// selection; clicking a second tile tries to pair it with the first, and
// when that fails the new tile becomes the selection.
func (s *Session) Select(ctx context.Context, i int) (MoveResult, error) {
	if dealt, err := s.resume(ctx); dealt || err != nil {
		return s.result(MoveResult{}), err
	}
	if err := s.playable(i); err != nil {
		return MoveResult{}, err
	}
	if s.selected == i {
		s.selected = noSelection
		s.emit(domain.Event{Kind: domain.EventDeselect, Tiles: []int{i}})
		return s.result(MoveResult{}), nil
	}
	if prev := s.selected; prev != noSelection {
		s.selected = noSelection
		res, err := s.pair(ctx, prev, i)
		if err != nil || res.Matched {
			return res, err
		}
		s.selected = i
		s.emit(domain.Event{Kind: domain.EventSelect, Tiles: []int{i}})
		return s.result(res), nil
	}
	s.selected = i
	s.emit(domain.Event{Kind: domain.EventSelect, Tiles: []int{i}})
	return s.result(MoveResult{}), nil
}

// Pair tries to remove tiles i and j together.
func (s *Session) Pair(ctx context.Context, i, j int) (MoveResult, error) {
	if dealt, err := s.resume(ctx); dealt || err != nil {
		return s.result(MoveResult{}), err
	}
	if err := s.playable(i); err != nil {
		return MoveResult{}, err
	}
	if err := s.playable(j); err != nil {
		return MoveResult{}, err
	}
	if i == j {
		return MoveResult{}, fmt.Errorf("%w: tile %d paired with itself", ErrInvalidIndex, i)
	}
	s.selected = noSelection
	return s.pair(ctx, i, j)
}

func (s *Session) pair(ctx context.Context, i, j int) (MoveResult, error) {
	if !match.CanMatch(s.grid, i, j) {
		res := MoveResult{Blockers: match.Blockers(s.grid, i, j)}
		s.emit(domain.Event{Kind: domain.EventMismatch, Tiles: append([]int{i, j}, res.Blockers...)})
		return s.result(res), nil
	}

	res := MoveResult{Matched: true, Tiles: []int{i, j}}
	for _, k := range []int{i, j} {
		if m := s.grid.Disable(k); m != domain.MarkerNone {
			res.Markers = append(res.Markers, m)
			if s.tracker.Collect(m) {
				s.emit(domain.Event{Kind: domain.EventMarkerCollected, Tiles: []int{k}, Marker: m})
			}
		}
	}
	s.emit(domain.Event{Kind: domain.EventPairClear, Tiles: res.Tiles})

	col := collapse.Collapse(s.grid)
	if len(col.Cleared) > 0 {
		res.Collapse = &col
		s.emit(domain.Event{Kind: domain.EventRowClear, Rows: col.Cleared})
	}

	switch {
	case s.tracker.Done():
		s.finish(domain.Won)
	case s.grid.RowCount() == 0:
		res.StageComplete = true
		s.emit(domain.Event{Kind: domain.EventStageComplete, Stage: s.stage})
		if err := s.nextStage(ctx); err != nil {
			s.log.Warn("stage advance failed, retrying on next move", "stage", s.stage, "err", err)
			return s.result(res), err
		}
	default:
		s.checkStuck()
	}
	return s.result(res), nil
}

// AddTiles spends one add charge and copies every active digit to the end
// of the board. An empty board costs nothing: the pending stage is dealt
// instead and no tiles are added.
func (s *Session) AddTiles(ctx context.Context) ([]int, error) {
	if s.outcome != domain.Playing {
		return nil, ErrFinished
	}
	if dealt, err := s.resume(ctx); dealt || err != nil {
		return nil, err
	}
	if s.grid.RowCount() == 0 {
		return nil, nil
	}
	if s.adds <= 0 {
		return nil, ErrNoAdds
	}
	s.adds--
	idx := s.grid.Replenish()
	mission.Place(s.rng, s.grid, idx, s.tracker.Missions, s.tracker.Open())
	s.emit(domain.Event{Kind: domain.EventAddTiles, Tiles: idx})
	s.log.Debug("tiles added", "count", len(idx), "addsLeft", s.adds)
	s.checkStuck()
	return idx, nil
}

// resume deals the next stage when an earlier advance failed and left the
// board empty. It reports whether a stage was dealt.
func (s *Session) resume(ctx context.Context) (bool, error) {
	if s.outcome != domain.Playing || s.stage == 0 || s.grid.RowCount() > 0 {
		return false, nil
	}
	if err := s.nextStage(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// checkStuck ends the level when nothing can be paired and nothing added.
func (s *Session) checkStuck() {
	if s.adds == 0 && !match.HasMove(s.grid) {
		s.finish(domain.Lost)
	}
}

func (s *Session) finish(o domain.Outcome) {
	s.outcome = o
	s.selected = noSelection
	kind := domain.EventLevelWon
	if o == domain.Lost {
		kind = domain.EventLevelLost
	}
	s.emit(domain.Event{Kind: kind, Stage: s.stage})
	s.log.Info("level over", "outcome", o.String(), "stage", s.stage)
}

func (s *Session) playable(i int) error {
	if s.outcome != domain.Playing {
		return ErrFinished
	}
	if i < 0 || i >= s.grid.RowCount()*domain.Cols {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	if !s.grid.Tile(i).Numbered() {
		return fmt.Errorf("%w: %d", ErrTileInactive, i)
	}
	return nil
}

func (s *Session) result(r MoveResult) MoveResult {
	r.Selected = s.selected
	r.Stage = s.stage
	r.Outcome = s.outcome
	return r
}

// Snapshot captures everything needed to resume the game later.
func (s *Session) Snapshot() domain.Snapshot {
	var ms []domain.Mission
	if s.tracker != nil {
		ms = append(ms, s.tracker.Missions...)
	}
	return domain.Snapshot{
		ID:       s.ID,
		Seed:     s.seed,
		Stage:    s.stage,
		AddsLeft: s.adds,
		Selected: s.selected,
		Numbered: s.grid.NumberedCount(),
		Rows:     s.grid.RowCount(),
		Tiles:    s.grid.Tiles(),
		Missions: ms,
		Outcome:  s.outcome,
	}
}

// Restore replaces the session state with snap. The random stream restarts
// from the snapshot seed and stage, so later stages differ from the ones the
// original game would have dealt.
func (s *Session) Restore(snap domain.Snapshot) error {
	n := len(snap.Tiles)
	switch {
	case n%domain.Cols != 0:
		return fmt.Errorf("%w: %d tiles is not whole rows", ErrBadSnapshot, n)
	case snap.Numbered < 0 || snap.Numbered > n:
		return fmt.Errorf("%w: numbered count %d of %d tiles", ErrBadSnapshot, snap.Numbered, n)
	case snap.Stage < 1:
		return fmt.Errorf("%w: stage %d", ErrBadSnapshot, snap.Stage)
	case snap.AddsLeft < 0:
		return fmt.Errorf("%w: %d adds left", ErrBadSnapshot, snap.AddsLeft)
	case snap.Outcome < domain.Playing || snap.Outcome > domain.Lost:
		return fmt.Errorf("%w: outcome %d", ErrBadSnapshot, snap.Outcome)
	}
	g := grid.FromTiles(snap.Tiles, snap.Numbered)
	if ok, conf := validator.New().ValidateGrid(g); !ok {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, conf)
	}
	if g.Capacity() < s.opts.CapacityRows {
		g.AppendRows(s.opts.CapacityRows - g.Capacity())
	}
	sel := snap.Selected
	if sel < 0 || sel >= g.Len() || !g.Tile(sel).Numbered() {
		sel = noSelection
	}

	if snap.ID != "" {
		s.ID = snap.ID
	}
	s.grid = g
	s.tracker = mission.NewTracker(snap.Missions)
	s.seed = snap.Seed
	s.rng = rand.New(rand.NewSource(snap.Seed + int64(snap.Stage)))
	s.stage = snap.Stage
	s.adds = snap.AddsLeft
	s.selected = sel
	s.outcome = snap.Outcome
	s.log.Info("game restored", "stage", s.stage, "outcome", s.outcome.String())
	return nil
}

func (s *Session) emit(e domain.Event) {
	if s.opts.Observer == nil {
		return
	}
	e.GameID = s.ID
	s.opts.Observer.Notify(e)
}
