package session

import (
	"context"
	"slices"
	"testing"
	"time"

	serrors "github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/strategy"
)

// answer resolves comparisons by the position of items in order until the
// session is done.
func answer(t *testing.T, sess *Session, order []string) {
	t.Helper()
	rank := make(map[string]int, len(order))
	for i, it := range order {
		rank[it] = i
	}
	timeout := time.After(5 * time.Second)
	for {
		snap := sess.Snapshot()
		if snap.Done {
			return
		}
		if snap.Active != nil {
			dir := pref.Left
			if rank[snap.Active.Right] < rank[snap.Active.Left] {
				dir = pref.Right
			}
			sess.Resolve(dir)
			continue
		}
		select {
		case <-sess.Done():
		case <-sess.Changed():
		case <-time.After(5 * time.Millisecond):
		case <-timeout:
			t.Fatal("session did not finish")
		}
	}
}

func TestSessionRanks(t *testing.T) {
	order := []string{"Hey Jude", "Let It Be", "Yesterday", "Help!", "Something"}
	items := []string{"Yesterday", "Something", "Hey Jude", "Help!", "Let It Be"}

	sess, err := New(items, strategy.MergeInsertion{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Result(); !serrors.Is(err, serrors.ErrCodeConflict) {
		t.Errorf("Result before start err = %v, want CONFLICT", err)
	}
	sess.Start(context.Background())
	answer(t, sess, order)

	got, err := sess.Result()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, order) {
		t.Errorf("Result() = %v, want %v", got, order)
	}

	res := sess.Export()
	if res.Strategy != strategy.NameMergeInsertion || !slices.Equal(res.Ranking, order) {
		t.Errorf("Export() = %+v", res)
	}
	if res.BestCase != res.Completed || res.WorstCase != res.Completed {
		t.Errorf("estimate = %d/%d/%d, want converged", res.Completed, res.BestCase, res.WorstCase)
	}
}

func TestSessionImportResolves(t *testing.T) {
	sess, err := New([]string{"a", "b"}, strategy.MergeSort{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sess.Start(context.Background())

	timeout := time.After(2 * time.Second)
	for sess.Snapshot().Active == nil {
		select {
		case <-sess.Changed():
		case <-time.After(5 * time.Millisecond):
		case <-timeout:
			t.Fatal("no comparison asked")
		}
	}

	sum, err := sess.Import(context.Background(), []importer.Pair{{Chosen: "b", Rejected: "a"}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Added != 1 {
		t.Errorf("Import = %+v, want one added", sum)
	}
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("import did not resolve pending comparison")
	}
	if got, _ := sess.Result(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Result() = %v, want [b a]", got)
	}
}

func TestSessionStop(t *testing.T) {
	sess, err := New([]string{"a", "b", "c"}, strategy.MergeSort{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sess.Start(context.Background())
	sess.Stop()
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not end the session")
	}
	if _, err := sess.Result(); err == nil {
		t.Error("Result() after Stop returned nil error")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]string{"a", "a"}, strategy.MergeSort{}, Options{})
	if !serrors.Is(err, serrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestManager(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{})

	if _, err := m.Current(); !serrors.Is(err, serrors.ErrCodeSessionNotFound) {
		t.Errorf("Current() err = %v, want SESSION_NOT_FOUND", err)
	}
	if _, err := m.Start([]string{"a"}, "quick"); !serrors.Is(err, serrors.ErrCodeInvalidStrategy) {
		t.Errorf("Start(quick) err = %v, want INVALID_STRATEGY", err)
	}

	first, err := m.Start([]string{"a", "b"}, "merge")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Start([]string{"c", "d"}, "merge-insertion")
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-first.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("replaced session still running")
	}

	if got, err := m.Get(second.ID.String()); err != nil || got != second {
		t.Errorf("Get(second) = %v, %v", got, err)
	}
	if _, err := m.Get(first.ID.String()); !serrors.Is(err, serrors.ErrCodeSessionNotFound) {
		t.Errorf("Get(first) err = %v, want SESSION_NOT_FOUND", err)
	}
	m.Close()
	if _, err := m.Current(); err == nil {
		t.Error("Current() after Close returned a session")
	}
}
