// Package metrics reports process memory usage for operational
// monitoring.
package metrics

import (
	"log/slog"
	"runtime"
	"time"
)

// Snapshot is a point-in-time view of process memory usage.
type Snapshot struct {
	// Timestamp of the snapshot.
	Timestamp time.Time

	// HeapAlloc is the number of bytes of allocated heap objects.
	HeapAlloc uint64

	// HeapSys is the heap memory obtained from the OS.
	HeapSys uint64

	// HeapIdle is the heap memory in idle spans.
	HeapIdle uint64

	// NumGC is the number of completed GC cycles.
	NumGC uint32

	// NumGoroutine is the number of live goroutines.
	NumGoroutine int
}

// Capture takes a memory snapshot.
func Capture() Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Snapshot{
		Timestamp:    time.Now(),
		HeapAlloc:    ms.HeapAlloc,
		HeapSys:      ms.HeapSys,
		HeapIdle:     ms.HeapIdle,
		NumGC:        ms.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// LogTo writes the snapshot to the logger at info level.
func (s Snapshot) LogTo(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("memory usage",
		"heap_alloc", s.HeapAlloc,
		"heap_sys", s.HeapSys,
		"heap_idle", s.HeapIdle,
		"num_gc", s.NumGC,
		"goroutines", s.NumGoroutine,
	)
}

// Reporter periodically captures and logs memory snapshots.
type Reporter struct {
	logger   *slog.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewReporter creates a Reporter that logs a snapshot every interval.
func NewReporter(logger *slog.Logger, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reporter{
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins periodic reporting in a background goroutine.
func (r *Reporter) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				Capture().LogTo(r.logger)
			}
		}
	}()
}

// Stop ends periodic reporting and waits for the goroutine to exit.
func (r *Reporter) Stop() {
	close(r.stop)
	<-r.done
}
