package session

import (
	"github.com/matzehuels/songsort/pkg/engine"
	"github.com/matzehuels/songsort/pkg/pref"
)

// Comparison is the question shown to the user.
type Comparison struct {
	ID    int    `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Snapshot is a point-in-time view of a session for rendering.
type Snapshot struct {
	ID        string          `json:"id"`
	Strategy  string          `json:"strategy"`
	Items     []string        `json:"items"`
	Active    *Comparison     `json:"active,omitempty"`
	Queued    int             `json:"queued"`
	Estimate  engine.Estimate `json:"estimate"`
	Decisions []pref.Decision `json:"-"`
	// Inferred is the total of inferred-streak notices taken by this
	// snapshot.
	Inferred int      `json:"inferred,omitempty"`
	Done     bool     `json:"done"`
	Ranking  []string `json:"ranking,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Snapshot captures the session state and takes pending inferred-streak
// notices.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.ID.String(),
		Strategy:  s.Strategy.Name(),
		Items:     s.Items,
		Estimate:  s.Engine.Estimate(),
		Decisions: s.Engine.Decisions(),
	}
	pending := s.Engine.Pending()
	if len(pending) > 0 {
		snap.Active = &Comparison{ID: pending[0].ID, Left: pending[0].Left, Right: pending[0].Right}
		snap.Queued = len(pending) - 1
	}
	for _, n := range s.Engine.TakeNotices() {
		snap.Inferred += n.Inferred
	}
	if s.Finished() {
		snap.Done = true
		snap.Ranking, _ = s.Result()
		if s.err != nil {
			snap.Error = s.err.Error()
		}
	}
	return snap
}
