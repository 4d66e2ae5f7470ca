package engine

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/ledger"
	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/pref"
)

// Request is a comparison awaiting an answer. Left and Right are shown to the
// user; the answer picks one of them.
type Request struct {
	ID    int
	Left  string
	Right string

	result chan pref.Decision
}

// Estimate tracks progress through a sort. BestCase and WorstCase bound the
// total number of comparisons the running strategy will make, including the
// Completed ones.
type Estimate struct {
	Completed int `json:"completed"`
	BestCase  int `json:"best"`
	WorstCase int `json:"worst"`
}

// Remaining returns the best- and worst-case number of comparisons left.
func (e Estimate) Remaining() (best, worst int) {
	return e.BestCase - e.Completed, e.WorstCase - e.Completed
}

// Notice reports a run of comparisons that were answered by inference before
// the next question reached the user.
type Notice struct {
	Inferred int
}

// Options configures an Engine. The zero value is valid.
type Options struct {
	// Logger receives debug events. Defaults to log.Default().
	Logger *log.Logger
	// Hooks receives ranking events. Defaults to observability.Ranking().
	Hooks observability.RankingHooks
	// Clock times direct decisions. Defaults to time.Now.
	Clock func() time.Time
}

// Engine coordinates comparisons for one ranking session.
//
// The zero value is not usable; create one with [New].
type Engine struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	queue    []*Request
	nextID   int
	estimate Estimate
	streak   int
	notices  []Notice
	changed  chan struct{}

	logger *log.Logger
	hooks  observability.RankingHooks
}

// New creates an engine with an empty ledger.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Ranking()
	}
	var lopts []ledger.Option
	if opts.Clock != nil {
		lopts = append(lopts, ledger.WithClock(opts.Clock))
	}
	return &Engine{
		ledger:  ledger.New(lopts...),
		changed: make(chan struct{}, 1),
		logger:  opts.Logger,
		hooks:   opts.Hooks,
	}
}

// Changed returns a channel that receives a value whenever the active
// request, the ledger, or the notices change. Signals coalesce: a single
// pending value may stand for several changes.
func (e *Engine) Changed() <-chan struct{} { return e.changed }

func (e *Engine) signal() {
	select {
	case e.changed <- struct{}{}:
	default:
	}
}

// KnownPreference reports whether the preference between a and b is already
// decided by the ledger, directly or by transitivity.
func (e *Engine) KnownPreference(a, b string) ledger.Known {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Known(a, b)
}

// Compare returns the decision between a and b, blocking until it is known.
//
// A preference the ledger already implies is returned immediately with Kind
// Inferred, and a closure-derived answer is recorded as an inferred decision.
// Otherwise a [Request] is queued and Compare waits for [Engine.Resolve]
// (returning Kind Direct) or for an import that decides the pair (Kind
// Inferred). Comparing an item with itself is an INVALID_INPUT error.
// Cancelling ctx abandons the request and returns ctx.Err().
func (e *Engine) Compare(ctx context.Context, a, b string) (pref.Decision, error) {
	if a == b {
		return pref.Decision{}, errors.New(errors.ErrCodeInvalidInput, "cannot compare %q with itself", a)
	}

	e.mu.Lock()
	if d, ok := e.inferLocked(ctx, a, b); ok {
		e.streak++
		e.mu.Unlock()
		e.signal()
		return d, nil
	}

	req := &Request{ID: e.nextID, Left: a, Right: b, result: make(chan pref.Decision, 1)}
	e.nextID++
	if e.streak > 0 {
		e.notices = append(e.notices, Notice{Inferred: e.streak})
		e.hooks.OnInferredStreak(ctx, e.streak)
		e.logger.Debug("inferred streak", "count", e.streak)
		e.streak = 0
	}
	e.queue = append(e.queue, req)
	if len(e.queue) == 1 {
		e.promptLocked(ctx)
	}
	e.mu.Unlock()
	e.signal()

	select {
	case d := <-req.result:
		return d, nil
	case <-ctx.Done():
		e.abandon(req)
		return pref.Decision{}, ctx.Err()
	}
}

// inferLocked answers a comparison from the ledger, recording closure-derived
// answers as inferred decisions.
func (e *Engine) inferLocked(ctx context.Context, a, b string) (pref.Decision, bool) {
	k := e.ledger.Known(a, b)
	if !k.Resolved() {
		return pref.Decision{}, false
	}
	d := k.Decision
	if !e.ledger.Has(a, b) {
		rec, err := e.ledger.Append(d.Chosen, d.Rejected, pref.Inferred)
		if err != nil {
			e.logger.Error("record inferred decision", "decision", d, "err", err)
		} else {
			d = rec
			e.hooks.OnDecision(ctx, rec)
		}
	}
	e.estimate.Completed++
	e.logger.Debug("inferred", "chosen", d.Chosen, "rejected", d.Rejected)
	d.Kind = pref.Inferred
	d.Ordinal = 0
	d.Elapsed = 0
	return d, true
}

func (e *Engine) promptLocked(ctx context.Context) {
	active := e.queue[0]
	e.hooks.OnPrompt(ctx, active.Left, active.Right, len(e.queue)-1)
	e.logger.Debug("prompt", "id", active.ID, "left", active.Left, "right", active.Right)
}

// Resolve answers the active request. dir is Left if the active request's
// Left item is preferred and Right otherwise.
//
// Resolve returns false, and does nothing, if no request is pending or dir is
// Unknown.
func (e *Engine) Resolve(dir pref.Direction) (pref.Decision, bool) {
	if dir == pref.Unknown {
		return pref.Decision{}, false
	}

	ctx := context.Background()
	e.mu.Lock()
	if len(e.queue) == 0 {
		e.mu.Unlock()
		return pref.Decision{}, false
	}
	req := e.queue[0]
	e.queue = e.queue[1:]

	chosen, rejected := req.Left, req.Right
	if dir == pref.Right {
		chosen, rejected = rejected, chosen
	}
	d, err := e.ledger.Append(chosen, rejected, pref.Direct)
	if err != nil {
		// The pair was decided while the request was pending; keep the record.
		e.logger.Warn("resolve decided pair", "left", req.Left, "right", req.Right, "err", err)
		d, _ = e.ledger.Lookup(chosen, rejected)
	} else {
		e.hooks.OnDecision(ctx, d)
		e.logger.Debug("decided", "ordinal", d.Ordinal, "chosen", d.Chosen, "rejected", d.Rejected, "elapsed", d.Elapsed)
	}
	e.estimate.Completed++
	wake := []pendingResult{{req, d}}
	wake = append(wake, e.drainKnownLocked(ctx)...)
	if len(e.queue) > 0 {
		// The head always changes here: req was popped.
		e.promptLocked(ctx)
	}
	e.mu.Unlock()

	deliver(wake)
	e.signal()
	return d, true
}

// Record appends chosen > rejected to the ledger with the given provenance.
//
// Direct records get the next ordinal and elapsed time; direct and imported
// records invalidate the inference cache. Pending requests the new record
// decides are resolved as inferred.
func (e *Engine) Record(chosen, rejected string, kind pref.Kind) (pref.Decision, error) {
	ctx := context.Background()
	e.mu.Lock()
	d, wake, err := e.recordLocked(ctx, chosen, rejected, kind)
	e.mu.Unlock()
	if err != nil {
		return pref.Decision{}, err
	}

	deliver(wake)
	e.signal()
	return d, nil
}

func (e *Engine) recordLocked(ctx context.Context, chosen, rejected string, kind pref.Kind) (pref.Decision, []pendingResult, error) {
	d, err := e.ledger.Append(chosen, rejected, kind)
	if err != nil {
		return pref.Decision{}, nil, err
	}
	e.hooks.OnDecision(ctx, d)
	if kind == pref.Inferred || len(e.queue) == 0 {
		return d, nil, nil
	}
	head := e.queue[0]
	wake := e.drainKnownLocked(ctx)
	if len(e.queue) > 0 && e.queue[0] != head {
		e.promptLocked(ctx)
	}
	return d, wake, nil
}

// AddImportedDecision appends d as an imported decision. If a pending request
// is now decided, directly or by transitivity, it is resolved at once with
// Kind Inferred instead of waiting for the user.
func (e *Engine) AddImportedDecision(d pref.Decision) (pref.Decision, error) {
	return e.Record(d.Chosen, d.Rejected, pref.Imported)
}

type pendingResult struct {
	req *Request
	d   pref.Decision
}

func deliver(results []pendingResult) {
	for _, r := range results {
		r.req.result <- r.d
	}
}

// drainKnownLocked removes every queued request the ledger now decides and
// returns the results to deliver once the lock is released. Callers prompt
// for a new head themselves.
func (e *Engine) drainKnownLocked(ctx context.Context) []pendingResult {
	var out []pendingResult
	kept := e.queue[:0]
	for _, req := range e.queue {
		if d, ok := e.inferLocked(ctx, req.Left, req.Right); ok {
			out = append(out, pendingResult{req, d})
			continue
		}
		kept = append(kept, req)
	}
	e.queue = kept
	return out
}

func (e *Engine) abandon(req *Request) {
	ctx := context.Background()
	e.mu.Lock()
	i := slices.Index(e.queue, req)
	if i >= 0 {
		e.queue = slices.Delete(e.queue, i, i+1)
		if i == 0 && len(e.queue) > 0 {
			e.promptLocked(ctx)
		}
	}
	e.mu.Unlock()
	e.signal()
}

// Active returns the request currently shown to the user.
func (e *Engine) Active() (Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Request{}, false
	}
	return *e.queue[0], true
}

// Pending returns all queued requests, active first.
func (e *Engine) Pending() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Request, len(e.queue))
	for i, r := range e.queue {
		out[i] = *r
	}
	return out
}

// TakeNotices returns and clears the inferred-streak notices.
func (e *Engine) TakeNotices() []Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.notices
	e.notices = nil
	return out
}

// Decisions returns a snapshot of the ledger in append order.
func (e *Engine) Decisions() []pref.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Decisions()
}

// Closure returns the transitive closure of the explicit decisions.
func (e *Engine) Closure() []pref.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Closure()
}

// CacheStats returns the inference cache counters.
func (e *Engine) CacheStats() ledger.CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.CacheStats()
}
