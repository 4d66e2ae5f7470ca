// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about ranking sessions and HTTP API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine and importer
// never import a logging or metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRankingHooks(&myRankingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Ranking().OnPrompt(ctx, left, right, queued)
//	// ... user answers ...
//	observability.Ranking().OnDecision(ctx, decision)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/songsort/pkg/pref"
)

// =============================================================================
// Ranking Hooks
// =============================================================================

// RankingHooks receives events from the comparison engine, the import
// reconciler, and sort sessions.
type RankingHooks interface {
	// OnPrompt fires when a comparison becomes the active question.
	// queued is the number of requests waiting behind it.
	OnPrompt(ctx context.Context, left, right string, queued int)

	// OnDecision fires for every decision recorded in a ledger.
	OnDecision(ctx context.Context, d pref.Decision)

	// OnInferredStreak fires when a user-facing question interrupts a run of
	// comparisons that were answered by inference.
	OnInferredStreak(ctx context.Context, count int)

	// OnImport fires after an import batch is reconciled.
	OnImport(ctx context.Context, added, skipped, cleaned, cycle int)

	// OnSortComplete fires when a sort strategy returns.
	OnSortComplete(ctx context.Context, strategy string, items, comparisons int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRankingHooks is a no-op implementation of RankingHooks.
type NoopRankingHooks struct{}

func (NoopRankingHooks) OnPrompt(context.Context, string, string, int) {}
func (NoopRankingHooks) OnDecision(context.Context, pref.Decision)     {}
func (NoopRankingHooks) OnInferredStreak(context.Context, int)         {}
func (NoopRankingHooks) OnImport(context.Context, int, int, int, int)  {}
func (NoopRankingHooks) OnSortComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rankingHooks RankingHooks = NoopRankingHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetRankingHooks registers custom ranking hooks.
// This should be called once at application startup before any session starts.
func SetRankingHooks(h RankingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rankingHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Ranking returns the registered ranking hooks.
func Ranking() RankingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rankingHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rankingHooks = NoopRankingHooks{}
	httpHooks = NoopHTTPHooks{}
}
