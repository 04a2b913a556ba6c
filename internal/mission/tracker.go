package mission

import "svw.info/pairs/internal/domain"

// Tracker counts collected markers against the level's missions.
type Tracker struct {
	Missions []domain.Mission
}

func NewTracker(ms []domain.Mission) *Tracker {
	return &Tracker{Missions: append([]domain.Mission(nil), ms...)}
}

// Collect records one collected marker. It reports false when the kind has
// no open mission.
func (t *Tracker) Collect(kind domain.MarkerKind) bool {
	for i := range t.Missions {
		if t.Missions[i].Kind == kind && t.Missions[i].Remaining > 0 {
			t.Missions[i].Remaining--
			return true
		}
	}
	return false
}

// Open is the number of missions still short of their target. It also caps
// how many markers a single load may place.
func (t *Tracker) Open() int {
	n := 0
	for _, m := range t.Missions {
		if m.Remaining > 0 {
			n++
		}
	}
	return n
}

func (t *Tracker) Done() bool { return len(t.Missions) > 0 && t.Open() == 0 }
