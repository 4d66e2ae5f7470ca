// Package importer merges externally supplied preferences into a ranking
// session.
//
// Imports never abort on a bad record. A record the session already holds is
// counted as skipped, and one that would contradict the session (its rejected
// item already reaches its chosen item) is counted as a cycle. Everything else
// is added as an imported decision, which may resolve a pending comparison on
// the spot.
package importer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/songsort/pkg/engine"
	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/pref"
)

// Pair is an imported preference: Chosen was preferred over Rejected.
type Pair struct {
	Chosen   string
	Rejected string
}

func (p Pair) decision() pref.Decision {
	return pref.Decision{Chosen: p.Chosen, Rejected: p.Rejected, Kind: pref.Imported}
}

// Target receives imported decisions. *engine.Engine satisfies it.
//
// ImportDecision must check for duplicates and cycles atomically with the
// append, since answers may arrive from other goroutines during an import.
type Target interface {
	ImportDecision(pref.Decision) (pref.Decision, engine.Outcome, error)
}

// Options configures Reconcile.
type Options struct {
	// Clean collapses the batch to its transitive reduction over Items
	// before importing.
	Clean bool
	// Items is the active item set. In clean mode, relations through items
	// outside the set are kept but the outside items are dropped. Empty means
	// every item is active.
	Items []string
	// Logger receives per-record debug events. Defaults to log.Default().
	Logger *log.Logger
}

// Summary counts the outcome of an import.
type Summary struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Cleaned int `json:"cleaned"`
	Cycle   int `json:"cycle"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d skipped, %d cleaned, %d rejected as cycles", s.Added, s.Skipped, s.Cleaned, s.Cycle)
}

// Reconcile imports batch into t and reports what happened to each record.
// It returns an INVALID_INPUT error only for an empty batch.
func Reconcile(ctx context.Context, t Target, batch []Pair, opts Options) (Summary, error) {
	var sum Summary
	if len(batch) == 0 {
		return sum, errors.New(errors.ErrCodeInvalidInput, "nothing to import")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	candidates := make([]pref.Decision, len(batch))
	for i, p := range batch {
		candidates[i] = p.decision()
	}
	if opts.Clean {
		cleaned, err := clean(candidates, opts.Items)
		if err != nil {
			return sum, err
		}
		sum.Cleaned = max(0, len(candidates)-len(cleaned))
		candidates = cleaned
	}

	for _, c := range candidates {
		d, outcome, err := t.ImportDecision(c)
		switch {
		case err != nil:
			sum.Skipped++
			logger.Debug("import skipped", "decision", c, "err", err)
		case outcome == engine.ImportAdded:
			sum.Added++
			logger.Debug("imported", "decision", d)
		case outcome == engine.ImportCycle:
			sum.Cycle++
			logger.Debug("import rejected", "decision", c, "reason", "cycle")
		default:
			sum.Skipped++
			logger.Debug("import skipped", "decision", c)
		}
	}

	observability.Ranking().OnImport(ctx, sum.Added, sum.Skipped, sum.Cleaned, sum.Cycle)
	logger.Info("import", "added", sum.Added, "skipped", sum.Skipped, "cleaned", sum.Cleaned, "cycle", sum.Cycle)
	return sum, nil
}

// clean returns the transitive reduction of decisions restricted to items.
func clean(decisions []pref.Decision, items []string) ([]pref.Decision, error) {
	closure, err := pref.TransitiveClosure(decisions)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		active := make(map[string]bool, len(items))
		for _, it := range items {
			active[it] = true
		}
		kept := closure[:0]
		for _, d := range closure {
			if active[d.Chosen] && active[d.Rejected] {
				kept = append(kept, d)
			}
		}
		closure = kept
	}
	reduced, err := pref.TransitiveReduction(closure, true)
	if err != nil {
		return nil, err
	}
	for i := range reduced {
		reduced[i].Kind = pref.Imported
	}
	return reduced, nil
}
