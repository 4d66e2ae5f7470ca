// Package engine implements the interactive comparison engine.
//
// An [Engine] owns the decision ledger of one ranking session, a FIFO queue of
// pending comparison requests, and the live best/worst-case estimate. Sort
// strategies call [Engine.Compare] exactly where a comparison sort would
// evaluate a < b. If the answer is already known, directly or by
// transitivity, Compare returns at once; otherwise it enqueues a [Request]
// and blocks until a UI calls [Engine.Resolve] or an import decides the pair.
//
// # Suspend and Resume
//
// Each pending request is a two-state machine: awaiting(left, right) until a
// resolution is delivered on its private channel. Exactly one request is
// active (shown to the user) at a time; others wait in arrival order. A
// strategy written as ordinary synchronous Go code therefore suspends at each
// unknown comparison without being aware of the UI.
//
// # Concurrency
//
// The strategy runs on its own goroutine while the UI goroutine resolves
// requests and imports decisions. All engine state is guarded by one mutex;
// ledger mutation and cache invalidation happen under it in that order, and
// the strategy is woken only after the lock is released.
//
// There is no timeout on a pending comparison. Cancelling the context passed
// to Compare unblocks it and removes its request; a new sort uses a new
// Engine rather than resetting this one.
package engine
