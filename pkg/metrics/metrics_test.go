package metrics

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestCapture(t *testing.T) {
	s := Capture()

	if s.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
	if s.HeapAlloc == 0 {
		t.Error("HeapAlloc = 0, want > 0")
	}
	if s.NumGoroutine < 1 {
		t.Errorf("NumGoroutine = %d, want >= 1", s.NumGoroutine)
	}
}

func TestLogTo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Capture().LogTo(logger)

	out := buf.String()
	if !strings.Contains(out, "memory usage") {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, "heap_alloc") {
		t.Errorf("log output missing heap_alloc: %s", out)
	}
}

func TestLogToNilLogger(t *testing.T) {
	// Must not panic.
	Capture().LogTo(nil)
}

func TestReporterStartStop(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewReporter(logger, 10*time.Millisecond)
	r.Start()
	time.Sleep(35 * time.Millisecond)
	r.Stop()

	if !strings.Contains(buf.String(), "memory usage") {
		t.Error("reporter produced no output")
	}
}
