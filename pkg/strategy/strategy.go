// Package strategy provides comparison sorts that run against an interactive
// comparer.
//
// Both strategies order items most preferred first. Every comparison goes
// through [Comparer.Compare], which may block until the user answers, and
// each strategy keeps the comparer's best/worst-case estimate exact: when a
// sort finishes, both bounds equal the number of comparisons it made.
//
// Available strategies:
//
//   - [MergeSort] ("merge"): pairwise merging of runs in FIFO order.
//   - [MergeInsertion] ("merge-insertion"): Ford-Johnson merge-insertion,
//     which needs the fewest comparisons for small inputs.
package strategy

import (
	"context"
	"math/bits"
	"slices"

	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/pref"
)

// Comparer answers comparisons and tracks the progress estimate.
// *engine.Engine satisfies it.
type Comparer interface {
	Compare(ctx context.Context, a, b string) (pref.Decision, error)
	ResetEstimate(best, worst int)
	AdjustEstimate(dBest, dWorst int)
}

// Strategy is a comparison sort driven through a Comparer.
type Strategy interface {
	// Name is the identifier accepted by [New].
	Name() string
	// Sort returns items ordered most preferred first.
	Sort(ctx context.Context, c Comparer, items []string) ([]string, error)
	// BestCase returns the fewest comparisons Sort makes on n items.
	BestCase(n int) int
	// WorstCase returns the most comparisons Sort makes on n items.
	WorstCase(n int) int
}

const (
	NameMerge          = "merge"
	NameMergeInsertion = "merge-insertion"
)

// Names lists the accepted strategy names.
func Names() []string { return []string{NameMerge, NameMergeInsertion} }

// New returns the strategy with the given name. "ford-johnson" is accepted as
// an alias for merge-insertion.
func New(name string) (Strategy, error) {
	switch name {
	case NameMerge, "mergesort":
		return MergeSort{}, nil
	case NameMergeInsertion, "ford-johnson":
		return MergeInsertion{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (want one of %v)", name, Names())
}

func validate(items []string) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it == "" {
			return errors.New(errors.ErrCodeInvalidInput, "empty item")
		}
		if seen[it] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate item %q", it)
		}
		seen[it] = true
	}
	return nil
}

// prefers reports whether a is preferred over b.
func prefers(ctx context.Context, c Comparer, a, b string) (bool, error) {
	d, err := c.Compare(ctx, a, b)
	if err != nil {
		return false, err
	}
	return d.Chosen == a, nil
}

// flog returns ⌊log₂ x⌋ for x ≥ 1.
func flog(x int) int { return bits.Len(uint(x)) - 1 }

// clog returns ⌈log₂ x⌉ for x ≥ 1.
func clog(x int) int { return bits.Len(uint(x - 1)) }

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}
