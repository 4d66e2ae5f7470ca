package pref

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	serrors "github.com/matzehuels/songsort/pkg/errors"
)

func d(chosen, rejected string) Decision {
	return Decision{Chosen: chosen, Rejected: rejected}
}

func edgeSet(decisions []Decision) map[[2]string]bool {
	m := make(map[[2]string]bool, len(decisions))
	for _, x := range decisions {
		m[[2]string{x.Chosen, x.Rejected}] = true
	}
	return m
}

func reachSet(t *testing.T, decisions []Decision) map[[2]string]bool {
	t.Helper()
	closure, err := TransitiveClosure(decisions)
	if err != nil {
		t.Fatalf("TransitiveClosure() error: %v", err)
	}
	return edgeSet(closure)
}

// randomHistory draws edges consistent with a hidden random order, so the
// result is always acyclic.
func randomHistory(r *rand.Rand, n, edges int) []Decision {
	items := make([]string, n)
	for i := range items {
		items[i] = string(rune('a' + i))
	}
	r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	out := []Decision{}
	for k := 0; k < edges; k++ {
		i, j := r.IntN(n), r.IntN(n)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		out = append(out, d(items[i], items[j]))
	}
	return out
}

func TestTransitiveClosure_Chain(t *testing.T) {
	in := []Decision{d("a", "b"), d("b", "c"), d("c", "d")}
	got, err := TransitiveClosure(in)
	if err != nil {
		t.Fatalf("TransitiveClosure() error: %v", err)
	}

	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	if !slices.Equal(got[:3], in) {
		t.Errorf("closure must start with the original records, got %v", got[:3])
	}
	want := []Decision{
		{Chosen: "a", Rejected: "c", Kind: Inferred},
		{Chosen: "a", Rejected: "d", Kind: Inferred},
		{Chosen: "b", Rejected: "d", Kind: Inferred},
	}
	if !slices.Equal(got[3:], want) {
		t.Errorf("synthetic records = %v, want %v", got[3:], want)
	}
}

func TestTransitiveClosure_KeepsDirectRecords(t *testing.T) {
	in := []Decision{d("a", "b"), d("b", "c"), d("a", "c")}
	got, err := TransitiveClosure(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3 (a>c already present)", len(got))
	}
}

func TestTransitiveClosure_Nil(t *testing.T) {
	_, err := TransitiveClosure(nil)
	if !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("TransitiveClosure(nil) error = %v, want INVALID_INPUT", err)
	}
	got, err := TransitiveClosure([]Decision{})
	if err != nil || len(got) != 0 {
		t.Errorf("TransitiveClosure(empty) = %v, %v; want empty, nil", got, err)
	}
}

func TestTransitiveReduction_Triangle(t *testing.T) {
	in := []Decision{d("a", "b"), d("b", "c"), d("a", "c")}
	got, err := TransitiveReduction(in, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []Decision{d("a", "b"), d("b", "c")}
	if !slices.Equal(got, want) {
		t.Errorf("TransitiveReduction() = %v, want %v", got, want)
	}
}

func TestTransitiveReduction_ReusesClosure(t *testing.T) {
	in := []Decision{d("a", "b"), d("b", "c"), d("c", "d")}
	closure, err := TransitiveClosure(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := TransitiveReduction(closure, true)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, in) {
		t.Errorf("TransitiveReduction(closure) = %v, want %v", got, in)
	}
}

func TestTransitiveReduction_Duplicates(t *testing.T) {
	in := []Decision{d("a", "b"), {Chosen: "a", Rejected: "b", Kind: Imported}}
	got, err := TransitiveReduction(in, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Kind != Direct {
		t.Errorf("TransitiveReduction() = %v, want the first record only", got)
	}
}

func TestTransitiveReduction_Nil(t *testing.T) {
	if _, err := TransitiveReduction(nil, false); !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("TransitiveReduction(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestTransitiveReduction_PreservesReachability(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		h := randomHistory(r, 3+r.IntN(8), 2+r.IntN(25))
		closure, err := TransitiveClosure(h)
		if err != nil {
			t.Fatal(err)
		}
		reduced, err := TransitiveReduction(closure, true)
		if err != nil {
			t.Fatal(err)
		}

		want := reachSet(t, h)
		got := reachSet(t, reduced)
		if len(got) != len(want) {
			t.Fatalf("trial %d: reachability size = %d, want %d", trial, len(got), len(want))
		}
		for e := range want {
			if !got[e] {
				t.Fatalf("trial %d: reduction lost %s > %s", trial, e[0], e[1])
			}
		}

		// No surviving edge may be implied by a two-hop path.
		for _, e := range reduced {
			for _, k := range Items(reduced) {
				if k == e.Chosen || k == e.Rejected {
					continue
				}
				if want[[2]string{e.Chosen, k}] && want[[2]string{k, e.Rejected}] {
					t.Fatalf("trial %d: %v implied via %s", trial, e, k)
				}
			}
		}
	}
}

func TestTopologicalSortItems(t *testing.T) {
	in := []Decision{d("b", "c"), d("a", "b"), d("a", "d"), d("d", "c")}
	got, err := TopologicalSortItems(in)
	if err != nil {
		t.Fatalf("TopologicalSortItems() error: %v", err)
	}
	want := []string{"a", "b", "d", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("TopologicalSortItems() = %v, want %v", got, want)
	}
}

func TestTopologicalSortItems_RespectsEdges(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		h := randomHistory(r, 2+r.IntN(10), 1+r.IntN(30))
		order, err := TopologicalSortItems(h)
		if err != nil {
			t.Fatalf("trial %d: unexpected warning %v", trial, err)
		}
		items := Items(h)
		if len(order) != len(items) {
			t.Fatalf("trial %d: len = %d, want %d", trial, len(order), len(items))
		}
		pos := map[string]int{}
		for i, item := range order {
			if _, dup := pos[item]; dup {
				t.Fatalf("trial %d: %s emitted twice", trial, item)
			}
			pos[item] = i
		}
		for _, e := range h {
			if pos[e.Chosen] >= pos[e.Rejected] {
				t.Fatalf("trial %d: %v out of order in %v", trial, e, order)
			}
		}
	}
}

func TestTopologicalSortItems_Cycle(t *testing.T) {
	in := []Decision{d("x", "a"), d("a", "b"), d("b", "c"), d("c", "a")}
	got, err := TopologicalSortItems(in)

	var warn *CycleWarning
	if !errors.As(err, &warn) {
		t.Fatalf("error = %v, want *CycleWarning", err)
	}
	if !slices.Equal(got, []string{"x"}) {
		t.Errorf("partial order = %v, want [x]", got)
	}
	if !slices.Equal(warn.Remaining, []string{"a", "b", "c"}) {
		t.Errorf("Remaining = %v, want [a b c]", warn.Remaining)
	}
}

func TestTopologicalSortPreferences(t *testing.T) {
	in := []Decision{d("b", "c"), d("a", "c"), d("a", "b")}
	got, err := TopologicalSortPreferences(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []Decision{d("a", "b"), d("a", "c"), d("b", "c")}
	if !slices.Equal(got, want) {
		t.Errorf("TopologicalSortPreferences() = %v, want %v", got, want)
	}
	if !slices.Equal(in, []Decision{d("b", "c"), d("a", "c"), d("a", "b")}) {
		t.Error("input must not be modified")
	}
}

func TestTopologicalSort_Nil(t *testing.T) {
	if _, err := TopologicalSortItems(nil); !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("TopologicalSortItems(nil) error = %v, want INVALID_INPUT", err)
	}
	if _, err := TopologicalSortPreferences(nil); !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("TopologicalSortPreferences(nil) error = %v, want INVALID_INPUT", err)
	}
	got, err := TopologicalSortItems([]Decision{})
	if err != nil || len(got) != 0 {
		t.Errorf("TopologicalSortItems(empty) = %v, %v; want empty, nil", got, err)
	}
}

func TestReachable(t *testing.T) {
	in := []Decision{d("a", "b"), d("b", "c"), d("x", "y")}
	tests := []struct {
		from, to string
		want     bool
	}{
		{"a", "c", true},
		{"c", "a", false},
		{"a", "y", false},
		{"a", "a", true},
		{"unknown", "a", false},
	}
	for _, tt := range tests {
		if got := Reachable(in, tt.from, tt.to); got != tt.want {
			t.Errorf("Reachable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !WouldCycle(in, "c", "a") {
		t.Error("WouldCycle(c > a) = false, want true")
	}
	if WouldCycle(in, "a", "y") {
		t.Error("WouldCycle(a > y) = true, want false")
	}
}

func TestHasCycle(t *testing.T) {
	if HasCycle([]Decision{d("a", "b"), d("b", "c")}) {
		t.Error("HasCycle(chain) = true, want false")
	}
	if !HasCycle([]Decision{d("a", "b"), d("b", "c"), d("c", "a")}) {
		t.Error("HasCycle(triangle) = false, want true")
	}
}

func TestPairOf(t *testing.T) {
	if PairOf("b", "a") != PairOf("a", "b") {
		t.Error("PairOf must be symmetric")
	}
	if got := d("y", "x").Pair(); got != (Pair{A: "x", B: "y"}) {
		t.Errorf("Pair() = %v, want {x y}", got)
	}
}

func TestDecisionDirection(t *testing.T) {
	x := d("a", "b")
	if x.Direction("a", "b") != Left || x.Direction("b", "a") != Right || x.Direction("a", "c") != Unknown {
		t.Error("Direction() mismatch")
	}
	if Left.Opposite() != Right || Unknown.Opposite() != Unknown {
		t.Error("Opposite() mismatch")
	}
}
