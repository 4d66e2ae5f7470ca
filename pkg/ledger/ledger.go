// Package ledger holds the decision history of one ranking session.
//
// A [Ledger] is an append-only sequence of [pref.Decision] values with at most
// one decision per unordered item pair. On top of it sits an inference cache
// that answers "is the preference between a and b already known?" from
// direct records first and from the transitive closure second.
//
// The closure is computed lazily and tagged with the number of explicit
// (direct or imported) records at the time it was built. Appending an
// explicit record invalidates the memoized lookups and makes the tag stale,
// so the next miss recomputes the closure. Inferred records never change the
// implied ordering and leave the cache untouched.
//
// A Ledger is not safe for concurrent use; the owning engine serializes
// access.
package ledger

import (
	"time"

	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/pref"
)

// Ledger is the ordered decision history of a session.
//
// The zero value is not usable; create one with [New].
type Ledger struct {
	decisions []pref.Decision
	byPair    map[pref.Pair]int // pair -> index into decisions
	explicit  int               // direct + imported records
	directs   int
	last      time.Time
	now       func() time.Time
	cache     inferenceCache
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the clock used to time direct decisions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger. The elapsed time of the first direct decision
// is measured from this call.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		byPair: make(map[pref.Pair]int),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.last = l.now()
	l.cache.reset()
	return l
}

// Append records chosen > rejected with the given provenance and returns the
// stored decision.
//
// Direct decisions receive the next ordinal and the time elapsed since the
// previous direct decision. Append returns an INVALID_INPUT error for empty
// or identical items and a CONFLICT error if the pair is already decided.
func (l *Ledger) Append(chosen, rejected string, kind pref.Kind) (pref.Decision, error) {
	if chosen == "" || rejected == "" {
		return pref.Decision{}, errors.New(errors.ErrCodeInvalidInput, "decision items must not be empty")
	}
	if chosen == rejected {
		return pref.Decision{}, errors.New(errors.ErrCodeInvalidInput, "cannot compare %q with itself", chosen)
	}
	pair := pref.PairOf(chosen, rejected)
	if i, ok := l.byPair[pair]; ok {
		return pref.Decision{}, errors.New(errors.ErrCodeConflict, "pair already decided: %s", l.decisions[i])
	}

	d := pref.Decision{Chosen: chosen, Rejected: rejected, Kind: kind}
	if kind == pref.Direct {
		now := l.now()
		l.directs++
		d.Ordinal = l.directs
		d.Elapsed = now.Sub(l.last)
		l.last = now
	}

	l.byPair[pair] = len(l.decisions)
	l.decisions = append(l.decisions, d)
	if kind != pref.Inferred {
		l.explicit++
		l.cache.invalidate()
	}
	return d, nil
}

// Len returns the number of records, including inferred ones.
func (l *Ledger) Len() int { return len(l.decisions) }

// ExplicitLen returns the number of direct and imported records. The inference
// cache is tagged with this value.
func (l *Ledger) ExplicitLen() int { return l.explicit }

// DirectCount returns the number of user-answered decisions.
func (l *Ledger) DirectCount() int { return l.directs }

// Decisions returns a copy of all records in append order.
func (l *Ledger) Decisions() []pref.Decision {
	out := make([]pref.Decision, len(l.decisions))
	copy(out, l.decisions)
	return out
}

// Filter returns the records whose kind is one of kinds, in append order.
func (l *Ledger) Filter(kinds ...pref.Kind) []pref.Decision {
	out := []pref.Decision{}
	for _, d := range l.decisions {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Lookup returns the record deciding the unordered pair {a, b}, if any.
func (l *Ledger) Lookup(a, b string) (pref.Decision, bool) {
	i, ok := l.byPair[pref.PairOf(a, b)]
	if !ok {
		return pref.Decision{}, false
	}
	return l.decisions[i], true
}

// Has reports whether the unordered pair {a, b} is decided by a record.
func (l *Ledger) Has(a, b string) bool {
	_, ok := l.byPair[pref.PairOf(a, b)]
	return ok
}
