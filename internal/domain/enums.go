package domain

// Status tells whether a tile still takes part in play.
type Status int

const (
	Active   Status = iota
	Disabled        // matched, cleared or padding
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// MarkerKind is the collectible a tile may carry. MarkerNone is the zero value.
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerPink
	MarkerOrange
	MarkerPurple
)

// MarkerKinds lists every collectible kind in a stable order.
var MarkerKinds = []MarkerKind{MarkerPink, MarkerOrange, MarkerPurple}

func (m MarkerKind) String() string {
	switch m {
	case MarkerPink:
		return "pink"
	case MarkerOrange:
		return "orange"
	case MarkerPurple:
		return "purple"
	default:
		return ""
	}
}

// Outcome is the state of the current level.
type Outcome int

const (
	Playing Outcome = iota
	Won             // every mission collected
	Lost            // no move left and no add charges
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// EventKind names a state transition reported to observers.
type EventKind string

const (
	EventSelect          EventKind = "select"
	EventDeselect        EventKind = "deselect"
	EventPairClear       EventKind = "pair_clear"
	EventMismatch        EventKind = "mismatch"
	EventRowClear        EventKind = "row_clear"
	EventAddTiles        EventKind = "add_tiles"
	EventMarkerCollected EventKind = "marker_collected"
	EventStageComplete   EventKind = "stage_complete"
	EventLevelWon        EventKind = "level_won"
	EventLevelLost       EventKind = "level_lost"
	EventLevelStart      EventKind = "level_start"
)
