package log

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(NewStateChange("attempt-1", "IDLE", "CONNECTING", "ssid=HomeNet"))
	logger.Log(NewProvisioning("session-1", "BROADCAST", "LISTENING", ""))
	logger.Log(NewError("attempt-1", "", errors.New("boom")))
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("read %d events, want 3", len(events))
	}

	if events[0].Category != CategoryStateChange {
		t.Errorf("events[0].Category = %s, want STATE_CHANGE", events[0].Category)
	}
	if events[0].StateChange == nil || events[0].StateChange.To != "CONNECTING" {
		t.Errorf("events[0].StateChange = %+v, want To=CONNECTING", events[0].StateChange)
	}
	if events[1].Provisioning == nil || events[1].Provisioning.Protocol != "BROADCAST" {
		t.Errorf("events[1].Provisioning = %+v, want Protocol=BROADCAST", events[1].Provisioning)
	}
	if events[2].Error == nil || events[2].Error.Message != "boom" {
		t.Errorf("events[2].Error = %+v, want Message=boom", events[2].Error)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger1, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger1.Log(NewStateChange("a", "IDLE", "CONNECTING", ""))
	logger1.Close()

	logger2, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger2.Log(NewStateChange("b", "CONNECTING", "CONNECTED", ""))
	logger2.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("read %d events, want 2", len(events))
	}
}

func TestFileLoggerLogAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Close()
	logger.Close() // safe to call twice

	// Must not panic or write.
	logger.Log(NewStateChange("a", "IDLE", "CONNECTING", ""))
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.Log(NewStateChange("a", "IDLE", "CONNECTING", ""))
			}
		}()
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 200 {
		t.Errorf("read %d events, want 200", len(events))
	}
}

func TestReaderFilterBySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Log(NewProvisioning("session-1", "BROADCAST", "LISTENING", ""))
	logger.Log(NewProvisioning("session-2", "LOCAL_AP", "LISTENING", ""))
	logger.Log(NewProvisioning("session-1", "BROADCAST", "COMPLETED", ""))
	logger.Close()

	reader, err := NewFilteredReader(path, Filter{SessionID: "session-1"})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("read %d events, want 2", len(events))
	}
	for _, e := range events {
		if e.SessionID != "session-1" {
			t.Errorf("SessionID = %q, want session-1", e.SessionID)
		}
	}
}

func TestReaderFilterByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Log(NewStateChange("a", "IDLE", "CONNECTING", ""))
	logger.Log(NewError("a", "", errors.New("boom")))
	logger.Close()

	cat := CategoryError
	reader, err := NewFilteredReader(path, Filter{Category: &cat})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("read %d events, want 1", len(events))
	}
	if events[0].Category != CategoryError {
		t.Errorf("Category = %s, want ERROR", events[0].Category)
	}
}

func TestReaderFilterByTimeWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.clog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	old := NewStateChange("a", "IDLE", "CONNECTING", "")
	old.Timestamp = time.Now().Add(-time.Hour)
	logger.Log(old)
	logger.Log(NewStateChange("b", "CONNECTING", "CONNECTED", ""))
	logger.Close()

	start := time.Now().Add(-time.Minute)
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start})
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("read %d events, want 1", len(events))
	}
	if events[0].AttemptID != "b" {
		t.Errorf("AttemptID = %q, want b", events[0].AttemptID)
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	dir := t.TempDir()
	path1 := filepath.Join(dir, "a.clog")
	path2 := filepath.Join(dir, "b.clog")

	l1, err := NewFileLogger(path1)
	if err != nil {
		t.Fatal(err)
	}
	l2, err := NewFileLogger(path2)
	if err != nil {
		t.Fatal(err)
	}

	multi := NewMultiLogger(l1, l2, NoopLogger{})
	multi.Log(NewStateChange("a", "IDLE", "CONNECTING", ""))
	l1.Close()
	l2.Close()

	for _, path := range []string{path1, path2} {
		reader, err := NewReader(path)
		if err != nil {
			t.Fatal(err)
		}
		events, err := reader.ReadAll()
		reader.Close()
		if err != nil {
			t.Fatal(err)
		}
		if len(events) != 1 {
			t.Errorf("%s: read %d events, want 1", path, len(events))
		}
	}
}
