package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/songsort/pkg/pref"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("ranked 12 songs")

	if !strings.Contains(buf.String(), "ranked 12 songs (") {
		t.Errorf("progress output = %q, want message with duration", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := LogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	h.OnPrompt(ctx, "A", "B", 2)
	h.OnDecision(ctx, pref.Decision{Chosen: "A", Rejected: "B", Kind: pref.Direct})
	h.OnInferredStreak(ctx, 3)
	h.OnImport(ctx, 4, 1, 0, 1)
	h.OnSortComplete(ctx, "merge", 5, 7, time.Second, nil)
	h.OnSortComplete(ctx, "merge", 5, 2, time.Second, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"prompt", "decision", "inferred streak", "import", "sort complete", "sort stopped", "hook"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := LogHooks(newLogger(&buf, log.InfoLevel))
	h.OnPrompt(context.Background(), "A", "B", 0)
	if buf.Len() != 0 {
		t.Errorf("hooks logged at info level: %q", buf.String())
	}
}
