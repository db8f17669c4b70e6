package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes connectivity events to an slog.Logger.
// Useful for development when you want to see the event trace in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	if event.AttemptID != "" {
		attrs = append(attrs, slog.String("attempt_id", event.AttemptID))
	}
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("from", event.StateChange.From),
			slog.String("to", event.StateChange.To),
		)
		if event.StateChange.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.StateChange.Detail))
		}
	case event.Provisioning != nil:
		attrs = append(attrs,
			slog.String("protocol", event.Provisioning.Protocol),
			slog.String("state", event.Provisioning.State),
		)
		if event.Provisioning.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.Provisioning.Detail))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "connectivity event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
