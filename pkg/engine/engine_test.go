package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	serrors "github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/pref"
)

type result struct {
	d   pref.Decision
	err error
}

func compareAsync(ctx context.Context, e *Engine, a, b string) <-chan result {
	ch := make(chan result, 1)
	go func() {
		d, err := e.Compare(ctx, a, b)
		ch <- result{d, err}
	}()
	return ch
}

// waitActive blocks until the engine has an active request.
func waitActive(t *testing.T, e *Engine) Request {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if r, ok := e.Active(); ok {
			return r
		}
		select {
		case <-e.Changed():
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			t.Fatal("no active request")
		}
	}
}

func waitResult(t *testing.T, ch <-chan result) result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("compare did not return")
		return result{}
	}
}

func TestCompareResolve(t *testing.T) {
	e := New(Options{})
	ch := compareAsync(context.Background(), e, "A", "B")

	req := waitActive(t, e)
	if req.Left != "A" || req.Right != "B" {
		t.Fatalf("active = %s/%s, want A/B", req.Left, req.Right)
	}
	d, ok := e.Resolve(pref.Right)
	if !ok {
		t.Fatal("Resolve returned false")
	}
	if d.Chosen != "B" || d.Rejected != "A" || d.Kind != pref.Direct || d.Ordinal != 1 {
		t.Errorf("Resolve = %+v, want B > A direct #1", d)
	}

	r := waitResult(t, ch)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.d.Chosen != "B" || r.d.Kind != pref.Direct {
		t.Errorf("Compare = %+v, want B direct", r.d)
	}
	if _, ok := e.Active(); ok {
		t.Error("request still active after resolve")
	}
	if got := e.Estimate().Completed; got != 1 {
		t.Errorf("Completed = %d, want 1", got)
	}
}

func TestCompareInferred(t *testing.T) {
	e := New(Options{})
	if _, err := e.Record("A", "B", pref.Direct); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Record("B", "C", pref.Direct); err != nil {
		t.Fatal(err)
	}

	d, err := e.Compare(context.Background(), "C", "A")
	if err != nil {
		t.Fatal(err)
	}
	if d.Chosen != "A" || d.Rejected != "C" || d.Kind != pref.Inferred {
		t.Errorf("Compare(C, A) = %+v, want A > C inferred", d)
	}

	decisions := e.Decisions()
	if len(decisions) != 3 || decisions[2].Kind != pref.Inferred {
		t.Errorf("ledger = %v, want inferred entry appended", decisions)
	}

	// Asking again finds the recorded entry without adding another.
	if _, err := e.Compare(context.Background(), "A", "C"); err != nil {
		t.Fatal(err)
	}
	if n := len(e.Decisions()); n != 3 {
		t.Errorf("len(ledger) = %d, want 3", n)
	}
}

func TestCompareSelf(t *testing.T) {
	e := New(Options{})
	_, err := e.Compare(context.Background(), "A", "A")
	if !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("Compare(A, A) err = %v, want INVALID_INPUT", err)
	}
}

func TestResolveWithoutPending(t *testing.T) {
	e := New(Options{})
	if _, ok := e.Resolve(pref.Left); ok {
		t.Error("Resolve with empty queue returned true")
	}
	if n := len(e.Decisions()); n != 0 {
		t.Errorf("ledger has %d entries, want 0", n)
	}

	ch := compareAsync(context.Background(), e, "A", "B")
	waitActive(t, e)
	if _, ok := e.Resolve(pref.Unknown); ok {
		t.Error("Resolve(Unknown) returned true")
	}
	e.Resolve(pref.Left)
	waitResult(t, ch)
}

func TestImportResolvesPending(t *testing.T) {
	e := New(Options{})
	if _, err := e.Record("A", "B", pref.Direct); err != nil {
		t.Fatal(err)
	}
	ch := compareAsync(context.Background(), e, "C", "A")
	waitActive(t, e)

	// B > C alone does not decide C vs A.
	if _, err := e.AddImportedDecision(pref.Decision{Chosen: "X", Rejected: "Y"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Active(); !ok {
		t.Fatal("unrelated import resolved the request")
	}

	if _, err := e.AddImportedDecision(pref.Decision{Chosen: "B", Rejected: "C"}); err != nil {
		t.Fatal(err)
	}
	r := waitResult(t, ch)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.d.Chosen != "A" || r.d.Rejected != "C" || r.d.Kind != pref.Inferred {
		t.Errorf("Compare(C, A) = %+v, want A > C inferred", r.d)
	}
	if _, ok := e.Active(); ok {
		t.Error("request still active after import")
	}
}

func TestFIFOQueue(t *testing.T) {
	e := New(Options{})
	first := compareAsync(context.Background(), e, "A", "B")
	waitActive(t, e)
	second := compareAsync(context.Background(), e, "C", "D")

	deadline := time.After(2 * time.Second)
	for len(e.Pending()) < 2 {
		select {
		case <-e.Changed():
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			t.Fatal("second request never queued")
		}
	}

	if req, _ := e.Active(); req.Left != "A" {
		t.Errorf("active = %s, want A", req.Left)
	}
	e.Resolve(pref.Left)
	waitResult(t, first)

	if req, _ := e.Active(); req.Left != "C" {
		t.Errorf("active = %s, want C", req.Left)
	}
	e.Resolve(pref.Right)
	if r := waitResult(t, second); r.d.Chosen != "D" {
		t.Errorf("second = %v, want D > C", r.d)
	}
}

func TestCompareCancel(t *testing.T) {
	e := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	ch := compareAsync(ctx, e, "A", "B")
	waitActive(t, e)
	cancel()

	r := waitResult(t, ch)
	if !errors.Is(r.err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", r.err)
	}
	if _, ok := e.Active(); ok {
		t.Error("cancelled request still active")
	}
}

func TestInferredStreakNotice(t *testing.T) {
	e := New(Options{})
	e.Record("A", "B", pref.Direct)
	e.Record("B", "C", pref.Direct)
	e.Record("C", "D", pref.Direct)

	for _, p := range [][2]string{{"A", "C"}, {"A", "D"}, {"B", "D"}} {
		if _, err := e.Compare(context.Background(), p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(e.TakeNotices()); n != 0 {
		t.Errorf("notices before a question = %d, want 0", n)
	}

	ch := compareAsync(context.Background(), e, "A", "E")
	waitActive(t, e)
	notices := e.TakeNotices()
	if len(notices) != 1 || notices[0].Inferred != 3 {
		t.Errorf("notices = %v, want one notice of 3", notices)
	}
	if n := len(e.TakeNotices()); n != 0 {
		t.Errorf("notices after take = %d, want 0", n)
	}
	e.Resolve(pref.Left)
	waitResult(t, ch)
}

func TestEstimate(t *testing.T) {
	e := New(Options{})
	e.ResetEstimate(2, 3)
	e.AdjustEstimate(1, -1)
	got := e.Estimate()
	if got.BestCase != 3 || got.WorstCase != 2 {
		t.Errorf("Estimate = %+v, want best 3 worst 2", got)
	}
	if best, worst := got.Remaining(); best != 3 || worst != 2 {
		t.Errorf("Remaining = %d, %d, want 3, 2", best, worst)
	}
}

func TestRecordElapsed(t *testing.T) {
	now := time.Unix(0, 0)
	e := New(Options{Clock: func() time.Time { return now }})

	now = now.Add(3 * time.Second)
	first, _ := e.Record("A", "B", pref.Direct)
	now = now.Add(2 * time.Second)
	second, _ := e.Record("B", "C", pref.Direct)

	if first.Elapsed != 3*time.Second || second.Elapsed != 2*time.Second {
		t.Errorf("elapsed = %v, %v, want 3s, 2s", first.Elapsed, second.Elapsed)
	}
	if _, err := e.Record("C", "B", pref.Direct); !serrors.Is(err, serrors.ErrCodeConflict) {
		t.Errorf("duplicate pair err = %v, want CONFLICT", err)
	}
}

type promptCounter struct {
	observability.NoopRankingHooks
	mu     sync.Mutex
	counts map[string]int
}

func (p *promptCounter) OnPrompt(_ context.Context, left, right string, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[left+"?"+right]++
}

func (p *promptCounter) count(left, right string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[left+"?"+right]
}

// waitPending blocks until n requests are queued.
func waitPending(t *testing.T, e *Engine, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for len(e.Pending()) < n {
		select {
		case <-e.Changed():
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			t.Fatalf("pending = %d, want %d", len(e.Pending()), n)
		}
	}
}

func TestResolvePromptsNewHeadOnce(t *testing.T) {
	hooks := &promptCounter{counts: map[string]int{}}
	e := New(Options{Hooks: hooks})
	if _, err := e.Record("B", "C", pref.Direct); err != nil {
		t.Fatal(err)
	}
	first := compareAsync(context.Background(), e, "A", "B")
	waitPending(t, e, 1)
	second := compareAsync(context.Background(), e, "A", "C")
	waitPending(t, e, 2)
	third := compareAsync(context.Background(), e, "D", "E")
	waitPending(t, e, 3)

	// A > B settles A vs C as well, so D vs E becomes the head.
	e.Resolve(pref.Left)
	waitResult(t, first)
	if r := waitResult(t, second); r.d.Kind != pref.Inferred {
		t.Errorf("second = %+v, want inferred", r.d)
	}
	if got := hooks.count("D", "E"); got != 1 {
		t.Errorf("prompts for D?E = %d, want 1", got)
	}
	if got := hooks.count("A", "C"); got != 0 {
		t.Errorf("prompts for A?C = %d, want 0", got)
	}
	e.Resolve(pref.Left)
	waitResult(t, third)
}

func TestImportDecision(t *testing.T) {
	e := New(Options{})
	if _, err := e.Record("A", "B", pref.Direct); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		chosen, rejected string
		want             Outcome
	}{
		{"B", "C", ImportAdded},
		{"A", "B", ImportSkipped},
		{"B", "A", ImportCycle},
		{"C", "A", ImportCycle},
		{"A", "C", ImportAdded},
		{"D", "D", ImportSkipped},
		{"", "D", ImportSkipped},
	}
	for _, tt := range tests {
		d, got, err := e.ImportDecision(pref.Decision{Chosen: tt.chosen, Rejected: tt.rejected})
		if err != nil {
			t.Fatalf("ImportDecision(%s > %s): %v", tt.chosen, tt.rejected, err)
		}
		if got != tt.want {
			t.Errorf("ImportDecision(%s > %s) = %v, want %v", tt.chosen, tt.rejected, got, tt.want)
		}
		if got == ImportAdded && d.Kind != pref.Imported {
			t.Errorf("ImportDecision(%s > %s).Kind = %v, want imported", tt.chosen, tt.rejected, d.Kind)
		}
	}
	if pref.HasCycle(e.Decisions()) {
		t.Errorf("ledger %v has a cycle", e.Decisions())
	}
}

func TestImportDecisionResolvesPending(t *testing.T) {
	e := New(Options{})
	ch := compareAsync(context.Background(), e, "A", "B")
	waitActive(t, e)
	if _, got, err := e.ImportDecision(pref.Decision{Chosen: "B", Rejected: "A"}); err != nil || got != ImportAdded {
		t.Fatalf("ImportDecision = %v, %v, want added", got, err)
	}
	if r := waitResult(t, ch); r.d.Chosen != "B" || r.d.Kind != pref.Inferred {
		t.Errorf("Compare(A, B) = %+v, want B > A inferred", r.d)
	}
}
