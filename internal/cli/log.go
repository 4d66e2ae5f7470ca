package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/songsort/pkg/observability"
	"github.com/matzehuels/songsort/pkg/pref"
)

// newLogger creates a logger writing to w at level, with timestamps formatted
// as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// the elapsed duration. It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered graph (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Ranking hooks
// =============================================================================

// LogHooks returns ranking hooks that report session events to l at debug
// level, prefixed with "hook".
func LogHooks(l *log.Logger) observability.RankingHooks {
	return logHooks{logger: l.WithPrefix("hook")}
}

type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnPrompt(_ context.Context, left, right string, queued int) {
	h.logger.Debug("prompt", "left", left, "right", right, "queued", queued)
}

func (h logHooks) OnDecision(_ context.Context, d pref.Decision) {
	h.logger.Debug("decision", "kind", d.Kind, "chosen", d.Chosen, "rejected", d.Rejected)
}

func (h logHooks) OnInferredStreak(_ context.Context, count int) {
	h.logger.Debug("inferred streak", "count", count)
}

func (h logHooks) OnImport(_ context.Context, added, skipped, cleaned, cycle int) {
	h.logger.Debug("import", "added", added, "skipped", skipped, "cleaned", cleaned, "cycle", cycle)
}

func (h logHooks) OnSortComplete(_ context.Context, strategy string, items, comparisons int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("sort stopped", "strategy", strategy, "items", items, "comparisons", comparisons, "err", err)
		return
	}
	h.logger.Debug("sort complete", "strategy", strategy, "items", items, "comparisons", comparisons,
		"duration", d.Round(time.Millisecond))
}
