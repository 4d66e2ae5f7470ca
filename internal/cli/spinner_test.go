package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("rendering graph")
	s.out = &buf
	s.Start()
	time.Sleep(3 * s.style.FPS)
	s.Stop()

	if !strings.Contains(buf.String(), "rendering graph") {
		t.Errorf("spinner output = %q, want message", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "waiting")
	s.out = &bytes.Buffer{}
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation, want true")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("stopping")
	s.out = &bytes.Buffer{}
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")
}
