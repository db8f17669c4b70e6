// Package log provides structured connectivity event capture.
//
// This package defines the Logger interface and Event types for recording
// connection and provisioning lifecycle events in a machine-readable form.
// It is separate from operational logging (slog) - event capture provides a
// complete trace of what the state machines did, suitable for field
// debugging on devices where an interactive log is unavailable.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLog = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLog, _ = log.NewFileLogger("/var/lib/wifiman/events.wlog")
//
//	// Both: use MultiLogger
//	cfg.EventLog = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys for
// compactness. Reader iterates a file back, optionally filtered.
package log
