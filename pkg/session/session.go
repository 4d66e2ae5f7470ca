// Package session runs one interactive ranking.
//
// A [Session] binds an item list and a sort strategy to a fresh
// [engine.Engine] and runs the sort on its own goroutine. User interfaces
// watch [Session.Changed], read a [Snapshot], and answer the active
// comparison with [Session.Resolve]. Starting another sort never reuses an
// engine: the [Manager] stops the running session and replaces it.
//
// # Usage
//
//	sess, err := session.New(items, strategy.MergeInsertion{}, session.Options{})
//	if err != nil {
//	    return err
//	}
//	sess.Start(ctx)
//	for {
//	    select {
//	    case <-sess.Done():
//	        return sess.Result()
//	    case <-sess.Changed():
//	        show(sess.Snapshot())
//	    }
//	}
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/songsort/pkg/engine"
	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/strategy"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when no session matches.
	ErrNotFound = errors.New(errors.ErrCodeSessionNotFound, "session not found")

	// ErrRunning is returned by Result while the sort is still running.
	ErrRunning = errors.New(errors.ErrCodeConflict, "ranking still in progress")
)

// Options configures new sessions. The zero value is valid.
type Options struct {
	Logger *log.Logger
	Clock  func() time.Time
}

// Session is one ranking run.
type Session struct {
	ID       uuid.UUID
	Items    []string
	Strategy strategy.Strategy
	Engine   *engine.Engine
	Created  time.Time

	logger  *log.Logger
	startMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	result  []string
	err     error
}

// New validates items and prepares a session. Items must be distinct and
// non-empty; an empty list ranks trivially.
func New(items []string, s strategy.Strategy, opts Options) (*Session, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "no strategy")
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty item")
		}
		if seen[it] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate item %q", it)
		}
		seen[it] = true
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	now := time.Now
	if opts.Clock != nil {
		now = opts.Clock
	}

	id := uuid.New()
	logger := opts.Logger.With("session", id.String()[:8])
	return &Session{
		ID:       id,
		Items:    slices.Clone(items),
		Strategy: s,
		Engine:   engine.New(engine.Options{Logger: logger, Clock: opts.Clock}),
		Created:  now(),
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the sort on a new goroutine. Cancelling ctx, or calling Stop,
// abandons the sort with the context's error. Start is a no-op after the
// first call.
func (s *Session) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("ranking", "items", len(s.Items), "strategy", s.Strategy.Name(),
		"best", s.Strategy.BestCase(len(s.Items)), "worst", s.Strategy.WorstCase(len(s.Items)))

	go func() {
		start := time.Now()
		ranking, err := s.Strategy.Sort(ctx, s.Engine, s.Items)
		s.result, s.err = ranking, err
		est := s.Engine.Estimate()
		observability.Ranking().OnSortComplete(ctx, s.Strategy.Name(), len(s.Items), est.Completed, time.Since(start), err)
		if err != nil {
			s.logger.Warn("ranking stopped", "err", err)
		} else {
			s.logger.Info("ranked", "comparisons", est.Completed, "asked", s.asked(),
				"duration", time.Since(start).Round(time.Millisecond))
		}
		close(s.done)
	}()
}

func (s *Session) asked() int {
	n := 0
	for _, d := range s.Engine.Decisions() {
		if d.Kind == pref.Direct {
			n++
		}
	}
	return n
}

// Stop abandons a running sort.
func (s *Session) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Done is closed when the sort finishes or is abandoned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Changed delivers a value whenever the active comparison, the ledger or the
// estimate changes.
func (s *Session) Changed() <-chan struct{} { return s.Engine.Changed() }

// Finished reports whether the sort has ended.
func (s *Session) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Result returns the ranking, most preferred first. It returns ErrRunning
// until the sort has finished.
func (s *Session) Result() ([]string, error) {
	if !s.Finished() {
		return nil, ErrRunning
	}
	return s.result, s.err
}

// Resolve answers the active comparison.
func (s *Session) Resolve(dir pref.Direction) (pref.Decision, bool) {
	return s.Engine.Resolve(dir)
}

// Import merges parsed decisions into the session's ledger. Relations through
// items outside the session are dropped in clean mode.
func (s *Session) Import(ctx context.Context, pairs []importer.Pair, clean bool) (importer.Summary, error) {
	return importer.Reconcile(ctx, s.Engine, pairs, importer.Options{
		Clean:  clean,
		Items:  s.Items,
		Logger: s.logger,
	})
}

// Export returns the session as a result document. Ranking is empty until
// the sort has finished.
func (s *Session) Export() io.Result {
	ranking, _ := s.Result()
	est := s.Engine.Estimate()
	return io.Result{
		Strategy:  s.Strategy.Name(),
		Ranking:   ranking,
		Decisions: s.Engine.Decisions(),
		Completed: est.Completed,
		BestCase:  est.BestCase,
		WorstCase: est.WorstCase,
	}
}
