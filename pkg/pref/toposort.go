package pref

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/songsort/pkg/errors"
)

// CycleWarning reports that a topological sort could not order every item
// because the preference graph contains a cycle. It is returned alongside a
// best-effort partial order and should be surfaced as a warning, not treated
// as fatal.
type CycleWarning struct {
	// Remaining lists the items left unordered, in first-seen order.
	Remaining []string
}

// Error implements the error interface.
func (w *CycleWarning) Error() string {
	return fmt.Sprintf("preference graph contains a cycle through %d item(s): %s",
		len(w.Remaining), strings.Join(w.Remaining, ", "))
}

// TopologicalSortItems orders the items of the preference graph so that every
// chosen item precedes the items it was preferred over.
//
// It uses Kahn's algorithm: in-degrees are computed over the items in
// first-seen order, zero in-degree items are emitted in discovery order, and
// their neighbours are released in edge insertion order.
//
// If fewer items are emitted than exist, the graph contains a cycle. The
// partial order is returned together with a *[CycleWarning] naming the items
// that could not be placed. A nil prefs is an INVALID_INPUT error.
func TopologicalSortItems(prefs []Decision) ([]string, error) {
	if prefs == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "topological sort: preferences must not be nil")
	}
	ix := newIndex(prefs)
	n := len(ix.items)

	inDegree := make([]int, n)
	outgoing := make([][]int, n)
	for _, d := range prefs {
		from, to := ix.pos[d.Chosen], ix.pos[d.Rejected]
		outgoing[from] = append(outgoing[from], to)
		inDegree[to]++
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]string, 0, n)
	emitted := make([]bool, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, ix.items[cur])
		emitted[cur] = true
		for _, next := range outgoing[cur] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) < n {
		w := &CycleWarning{}
		for i, ok := range emitted {
			if !ok {
				w.Remaining = append(w.Remaining, ix.items[i])
			}
		}
		return order, w
	}
	return order, nil
}

// TopologicalSortPreferences returns a copy of prefs stably sorted by the
// topological position of the chosen item, then of the rejected item.
//
// Items left unordered by a cycle sort after every ordered item, in first-seen
// order, and the *[CycleWarning] from [TopologicalSortItems] is passed through.
func TopologicalSortPreferences(prefs []Decision) ([]Decision, error) {
	order, warn := TopologicalSortItems(prefs)
	if _, ok := warn.(*CycleWarning); warn != nil && !ok {
		return nil, warn
	}

	pos := make(map[string]int, len(order))
	for i, item := range order {
		pos[item] = i
	}
	for _, item := range Items(prefs) {
		if _, ok := pos[item]; !ok {
			pos[item] = len(pos)
		}
	}

	out := slices.Clone(prefs)
	slices.SortStableFunc(out, func(a, b Decision) int {
		if c := pos[a.Chosen] - pos[b.Chosen]; c != 0 {
			return c
		}
		return pos[a.Rejected] - pos[b.Rejected]
	})
	return out, warn
}
