package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Cols is the fixed board width.
	Cols = 9
	// StageRows is the height of a freshly generated stage.
	StageRows = 3
	// StageTiles is the number of values a stage starts with.
	StageTiles = StageRows * Cols
)

// Tile is a single cell of the board.
type Tile struct {
	Index  int        `json:"index"`
	Value  int        `json:"value"`
	Status Status     `json:"status"`
	Marker MarkerKind `json:"marker,omitempty"`
}

// Active reports whether the tile can still match or block.
func (t Tile) Active() bool { return t.Status == Active }

// Numbered reports whether the tile holds a digit that is still in play.
func (t Tile) Numbered() bool { return t.Status == Active && t.Value != 0 }

// Mission is one collectible objective of a level.
type Mission struct {
	Kind      MarkerKind `json:"kind"`
	Target    int        `json:"target"`
	Remaining int        `json:"remaining"`
}

// Hint points the player at a pair that can be removed.
type Hint struct {
	Message string `json:"message,omitempty"`
	Tiles   []int  `json:"tiles,omitempty"`
}

// Conflict describes one broken board constraint.
type Conflict struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Event is emitted by the session after its state has already changed.
type Event struct {
	Kind    EventKind  `json:"kind"`
	GameID  string     `json:"gameId,omitempty"`
	Tiles   []int      `json:"tiles,omitempty"`
	Rows    []int      `json:"rows,omitempty"`
	Marker  MarkerKind `json:"marker,omitempty"`
	Stage   int        `json:"stage,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Snapshot is the full, serialisable state of a game.
type Snapshot struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Seed      int64     `json:"seed,omitempty"`
	Stage     int       `json:"stage"`
	AddsLeft  int       `json:"addsLeft"`
	Selected  int       `json:"selected"`
	Numbered  int       `json:"numbered"`
	Rows      int       `json:"rows"`
	Tiles     []Tile    `json:"tiles"`
	Missions  []Mission `json:"missions,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	CreatedAt int64     `json:"createdAt,omitempty"`
}

// SnapshotMeta is a lightweight listing entry.
type SnapshotMeta struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Stage     int     `json:"stage"`
	Outcome   Outcome `json:"outcome"`
	CreatedAt int64   `json:"createdAt"`
}

// Schedule holds the pair count each stage is generated with. Stages past
// the end reuse the last entry.
type Schedule []int

// DefaultSchedule is 3 pairs on stage 1, 2 on stage 2 and 1 afterwards.
var DefaultSchedule = Schedule{3, 2, 1}

// Target returns the pair count for a 1-based stage number.
func (s Schedule) Target(stage int) int {
	if len(s) == 0 {
		return DefaultSchedule.Target(stage)
	}
	if stage < 1 {
		stage = 1
	}
	if stage > len(s) {
		return s[len(s)-1]
	}
	return s[stage-1]
}

func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ParseSchedule reads a comma separated list such as "3,2,1".
func ParseSchedule(str string) (Schedule, error) {
	var out Schedule
	for _, p := range strings.Split(str, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid stage target %q: %w", p, err)
		}
		if v < 1 || v > StageTiles/2 {
			return nil, fmt.Errorf("stage target %d must be between 1 and %d", v, StageTiles/2)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty stage schedule")
	}
	return out, nil
}
