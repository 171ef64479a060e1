package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Thinking...")
	s.out = &buf

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if buf.Len() == 0 {
		t.Error("spinner should have written frames to its writer")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Waiting on model...")
	s.out = &bytes.Buffer{}
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context cancellation")
	}
}

func TestSpinnerCancelledByTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Waiting on model...")
	s.out = &bytes.Buffer{}
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Applying operations...")
	s.out = &bytes.Buffer{}
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
