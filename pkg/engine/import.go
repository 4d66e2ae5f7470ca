package engine

import (
	"context"

	"github.com/matzehuels/songsort/pkg/pref"
)

// Outcome is what happened to a decision offered by [Engine.ImportDecision].
type Outcome int

const (
	// ImportAdded means the decision was appended as imported.
	ImportAdded Outcome = iota
	// ImportSkipped means the decision was malformed or already held.
	ImportSkipped
	// ImportCycle means the rejected item already reaches the chosen one.
	ImportCycle
)

func (o Outcome) String() string {
	switch o {
	case ImportAdded:
		return "added"
	case ImportSkipped:
		return "skipped"
	case ImportCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// ImportDecision offers d to the ledger as an imported decision.
//
// The duplicate and cycle checks run under the same lock as the append, so a
// concurrent [Engine.Resolve] cannot slip an answer in between them. The
// returned decision is the stored record for ImportAdded and the existing
// record for a duplicate.
func (e *Engine) ImportDecision(d pref.Decision) (pref.Decision, Outcome, error) {
	if d.Chosen == "" || d.Rejected == "" || d.Chosen == d.Rejected {
		return d, ImportSkipped, nil
	}

	ctx := context.Background()
	e.mu.Lock()
	if rec, ok := e.ledger.Lookup(d.Chosen, d.Rejected); ok && rec.Chosen == d.Chosen {
		e.mu.Unlock()
		return rec, ImportSkipped, nil
	}
	if pref.WouldCycle(e.ledger.Decisions(), d.Chosen, d.Rejected) {
		e.mu.Unlock()
		return d, ImportCycle, nil
	}
	rec, wake, err := e.recordLocked(ctx, d.Chosen, d.Rejected, pref.Imported)
	e.mu.Unlock()
	if err != nil {
		return d, ImportSkipped, err
	}

	deliver(wake)
	e.signal()
	return rec, ImportAdded, nil
}
