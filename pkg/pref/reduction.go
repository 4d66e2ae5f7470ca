package pref

import "github.com/matzehuels/songsort/pkg/errors"

// TransitiveReduction removes every preference that is implied by a two-hop
// path through the transitive closure.
//
// For each record i→j, the record is dropped if some k distinct from i and j
// has both i→k and k→j in the closure. For example, given A>B, B>C and A>C,
// the record A>C is redundant and is removed because A reaches C via B.
// Synthetic Inferred records produced by [TransitiveClosure] are always
// implied by such a path, so feeding a closure back in yields the same
// reduction as feeding the original records.
//
// If closureComputed is true, decisions is taken to already be transitively
// closed and its matrix is used directly; otherwise the closure is computed
// first. The returned slice holds the original records of surviving edges in
// input order, one record per distinct edge.
//
// # Nil Handling
//
// TransitiveReduction returns an INVALID_INPUT error if decisions is nil.
//
// # Performance
//
// Time complexity is O(V³ + E·V) for V distinct items and E records. Space is
// O(V²) for the reachability matrix.
func TransitiveReduction(decisions []Decision, closureComputed bool) ([]Decision, error) {
	if decisions == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "transitive reduction: decisions must not be nil")
	}

	ix := newIndex(decisions)
	reach := adjacencyMatrix(ix, decisions)
	if !closureComputed {
		floydWarshall(reach)
	}

	seen := make(map[[2]int]bool, len(decisions))
	out := make([]Decision, 0, len(decisions))
	for _, d := range decisions {
		i, j := ix.pos[d.Chosen], ix.pos[d.Rejected]
		edge := [2]int{i, j}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		if impliedByTwoHop(reach, i, j) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func impliedByTwoHop(reach [][]bool, i, j int) bool {
	for k := range reach {
		if k == i || k == j {
			continue
		}
		if reach[i][k] && reach[k][j] {
			return true
		}
	}
	return false
}
