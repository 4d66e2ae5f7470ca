package pref

import (
	"slices"

	"github.com/matzehuels/songsort/pkg/errors"
)

// TransitiveClosure returns decisions followed by one synthetic Inferred
// decision for every pair reachable through the preference graph that is not
// already present as a record.
//
// Items receive dense indices in first-seen order and reachability is
// computed with Floyd–Warshall over a boolean matrix: for each intermediate k,
// every i with i→k gains every j with k→j. Synthetic decisions are appended
// in row-major index order and carry no ordinal or elapsed time.
//
// # Nil Handling
//
// TransitiveClosure returns an INVALID_INPUT error if decisions is nil. An
// empty, non-nil slice yields an empty result.
//
// # Cycles
//
// Self-reachability produced by a cycle never yields a synthetic decision,
// but the cycle's members do gain edges in both directions. Callers that must
// stay acyclic test candidates with [Reachable] before accepting them.
func TransitiveClosure(decisions []Decision) ([]Decision, error) {
	if decisions == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "transitive closure: decisions must not be nil")
	}

	ix := newIndex(decisions)
	reach := adjacencyMatrix(ix, decisions)
	present := copyMatrix(reach)
	floydWarshall(reach)

	out := slices.Clone(decisions)
	for i := range reach {
		for j := range reach[i] {
			if i == j || !reach[i][j] || present[i][j] {
				continue
			}
			out = append(out, Decision{
				Chosen:   ix.items[i],
				Rejected: ix.items[j],
				Kind:     Inferred,
			})
		}
	}
	return out, nil
}

// adjacencyMatrix sets matrix[i][j] for every record chosen=i, rejected=j.
func adjacencyMatrix(ix *index, decisions []Decision) [][]bool {
	n := len(ix.items)
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	for _, d := range decisions {
		m[ix.pos[d.Chosen]][ix.pos[d.Rejected]] = true
	}
	return m
}

func floydWarshall(reach [][]bool) {
	n := len(reach)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !reach[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				if reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}
}

func copyMatrix(m [][]bool) [][]bool {
	out := make([][]bool, len(m))
	for i := range m {
		out[i] = slices.Clone(m[i])
	}
	return out
}
