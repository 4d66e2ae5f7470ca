package strategy

import (
	"context"
	"slices"
)

// MergeInsertion is the Ford-Johnson merge-insertion sort.
//
// Items are paired and compared, the winners are sorted recursively, and each
// loser is binary-searched into the prefix of the chain that precedes its
// winner. Losers are inserted in groups bounded by Jacobsthal numbers so that
// every search in group k spans at most 2^k − 1 items.
type MergeInsertion struct{}

func (MergeInsertion) Name() string { return NameMergeInsertion }

// WorstCase returns n⌈log₂(3n/4)⌉ − ⌊2^⌊log₂6n⌋/3⌋ + ⌊log₂(6n)/2⌋, which
// equals Σ ⌈log₂(3k/4)⌉ for k = 1..n.
// The bound is exact and tighter than the form written with log₂(8n/3),
// which gives 9 instead of 7 for n = 5.
func (MergeInsertion) WorstCase(n int) int {
	if n < 2 {
		return 0
	}
	c := 0
	for 1<<(c+2) < 3*n {
		c++
	}
	f := flog(6 * n)
	return n*c - (1<<f)/3 + f/2
}

// BestCase returns the pairing comparisons Σ ⌊n/2^k⌋ plus, for every
// insertion, ⌊log₂(r+1)⌋ where r is the smallest search range the insertion
// can see.
func (MergeInsertion) BestCase(n int) int {
	if n < 2 {
		return 0
	}
	m := n / 2
	total := m + MergeInsertion{}.BestCase(m)
	for _, st := range insertionPlan(m, n%2 == 1) {
		total += flog(st.minRange() + 1)
	}
	return total
}

// insertionStep inserts loser b_i (1-based) as part of group k. prev is the
// Jacobsthal threshold of the previous group.
type insertionStep struct {
	i, k, prev int
	unpaired   bool
}

// minRange is the search range size when no later loser of the same group
// landed in front of the step's winner: i−1 winners and prev placed losers.
// The unpaired item b_{m+1} searches the whole chain, which has the same size.
func (st insertionStep) minRange() int { return st.i - 1 + st.prev }

// jacobsthal returns t_k = (2^(k+1) + (−1)^k) / 3: 1, 3, 5, 11, 21, ...
func jacobsthal(k int) int {
	sign := 1
	if k%2 == 1 {
		sign = -1
	}
	return (1<<(k+1) + sign) / 3
}

// insertionPlan orders the insertions of b_2..b_m, plus b_{m+1} when an
// unpaired item exists. b_1 is placed without comparison.
func insertionPlan(m int, unpaired bool) []insertionStep {
	total := m
	if unpaired {
		total++
	}
	var plan []insertionStep
	for k := 2; ; k++ {
		prev := jacobsthal(k - 1)
		if prev >= total {
			break
		}
		hi := min(jacobsthal(k), total)
		for i := hi; i > prev; i-- {
			plan = append(plan, insertionStep{i: i, k: k, prev: prev, unpaired: unpaired && i == m+1})
		}
	}
	return plan
}

func (s MergeInsertion) Sort(ctx context.Context, c Comparer, items []string) ([]string, error) {
	if err := validate(items); err != nil {
		return nil, err
	}
	c.ResetEstimate(s.BestCase(len(items)), s.WorstCase(len(items)))
	chain, err := mergeInsert(ctx, c, items)
	if err != nil {
		return nil, err
	}
	return reversed(chain), nil
}

// mergeInsert returns items ordered least preferred first.
func mergeInsert(ctx context.Context, c Comparer, items []string) ([]string, error) {
	n := len(items)
	if n < 2 {
		return slices.Clone(items), nil
	}

	m := n / 2
	winners := make([]string, m)
	loser := make(map[string]string, m)
	for i := range m {
		a, b := items[2*i], items[2*i+1]
		aWins, err := prefers(ctx, c, a, b)
		if err != nil {
			return nil, err
		}
		if !aWins {
			a, b = b, a
		}
		winners[i] = a
		loser[a] = b
	}

	sorted, err := mergeInsert(ctx, c, winners)
	if err != nil {
		return nil, err
	}

	// pend[i] is b_i; pend[0] is unused.
	pend := make([]string, 0, m+2)
	pend = append(pend, "")
	for _, a := range sorted {
		pend = append(pend, loser[a])
	}
	if n%2 == 1 {
		pend = append(pend, items[n-1])
	}

	chain := make([]string, 0, n)
	chain = append(chain, pend[1])
	chain = append(chain, sorted...)

	for _, st := range insertionPlan(m, n%2 == 1) {
		r := len(chain)
		if !st.unpaired {
			r = slices.Index(chain, sorted[st.i-1])
		}
		pos, err := binaryInsert(ctx, c, pend[st.i], chain, r, st)
		if err != nil {
			return nil, err
		}
		chain = slices.Insert(chain, pos, pend[st.i])
	}
	return chain, nil
}

// binaryInsert finds the position of x within chain[:r], which is ordered
// least preferred first.
func binaryInsert(ctx context.Context, c Comparer, x string, chain []string, r int, st insertionStep) (int, error) {
	c.AdjustEstimate(flog(r+1)-flog(st.minRange()+1), clog(r+1)-st.k)

	lo, hi := 0, r
	for lo < hi {
		size := hi - lo
		mid := (lo + hi) / 2
		better, err := prefers(ctx, c, x, chain[mid])
		if err != nil {
			return 0, err
		}
		if better {
			lo = mid + 1
		} else {
			hi = mid
		}
		next := hi - lo
		c.AdjustEstimate(flog(next+1)-flog(size+1)+1, clog(next+1)-clog(size+1)+1)
	}
	return lo, nil
}
