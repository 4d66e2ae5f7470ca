package strategy

import "context"

// MergeSort merges runs pairwise, starting from singletons. Runs wait in a
// FIFO queue: the two oldest are merged and the result joins the back, so
// leftover runs from an odd count are merged as early as possible.
type MergeSort struct{}

func (MergeSort) Name() string { return NameMerge }

// WorstCase returns n⌈log₂n⌉ − 2^⌈log₂n⌉ + 1.
func (MergeSort) WorstCase(n int) int {
	if n < 2 {
		return 0
	}
	c := clog(n)
	return n*c - 1<<c + 1
}

// BestCase returns Σ size·⌊n/2size⌋ + max(0, n mod 2size − size) over
// size = 1, 2, 4, ... below n.
func (MergeSort) BestCase(n int) int {
	total := 0
	for size := 1; size < n; size *= 2 {
		total += size*(n/(2*size)) + max(0, n%(2*size)-size)
	}
	return total
}

func (s MergeSort) Sort(ctx context.Context, c Comparer, items []string) ([]string, error) {
	if err := validate(items); err != nil {
		return nil, err
	}
	n := len(items)
	c.ResetEstimate(s.BestCase(n), s.WorstCase(n))
	if n < 2 {
		return append([]string(nil), items...), nil
	}

	queue := make([][]string, n)
	for i, it := range items {
		queue[i] = []string{it}
	}
	for len(queue) > 1 {
		merged, err := merge(ctx, c, queue[0], queue[1])
		if err != nil {
			return nil, err
		}
		queue = append(queue[2:], merged)
	}
	return queue[0], nil
}

// mergeBounds returns the fewest and most comparisons needed to merge runs of
// lengths p and q.
func mergeBounds(p, q int) (best, worst int) {
	if p == 0 || q == 0 {
		return 0, 0
	}
	return min(p, q), p + q - 1
}

func merge(ctx context.Context, c Comparer, p, q []string) ([]string, error) {
	out := make([]string, 0, len(p)+len(q))
	i, j := 0, 0
	for i < len(p) && j < len(q) {
		best, worst := mergeBounds(len(p)-i, len(q)-j)
		left, err := prefers(ctx, c, p[i], q[j])
		if err != nil {
			return nil, err
		}
		if left {
			out = append(out, p[i])
			i++
		} else {
			out = append(out, q[j])
			j++
		}
		best2, worst2 := mergeBounds(len(p)-i, len(q)-j)
		c.AdjustEstimate(best2-best+1, worst2-worst+1)
	}
	out = append(out, p[i:]...)
	return append(out, q[j:]...), nil
}
