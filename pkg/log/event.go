package log

import "time"

// Event represents a connectivity log event. CBOR encoding uses integer
// keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"2,keyasint"`

	// AttemptID identifies the connection attempt (UUID), if any.
	AttemptID string `cbor:"3,keyasint,omitempty"`

	// SessionID identifies the provisioning session (UUID), if any.
	SessionID string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange  *StateChangeEvent  `cbor:"5,keyasint,omitempty"`
	Provisioning *ProvisioningEvent `cbor:"6,keyasint,omitempty"`
	Error        *ErrorEvent        `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryStateChange - a connection phase or mode transition.
	CategoryStateChange Category = 0

	// CategoryProvisioning - a provisioning session transition.
	CategoryProvisioning Category = 1

	// CategoryError - an error at any layer.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStateChange:
		return "STATE_CHANGE"
	case CategoryProvisioning:
		return "PROVISIONING"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a connection phase or mode transition.
type StateChangeEvent struct {
	// From is the previous state name.
	From string `cbor:"1,keyasint"`

	// To is the new state name.
	To string `cbor:"2,keyasint"`

	// Detail carries optional context (SSID, address, reason).
	Detail string `cbor:"3,keyasint,omitempty"`
}

// ProvisioningEvent captures a provisioning session transition.
type ProvisioningEvent struct {
	// Protocol is the provisioning protocol name.
	Protocol string `cbor:"1,keyasint"`

	// State is the new session state name.
	State string `cbor:"2,keyasint"`

	// Detail carries optional context.
	Detail string `cbor:"3,keyasint,omitempty"`
}

// ErrorEvent captures an error.
type ErrorEvent struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`
}

// NewStateChange builds a state-change event.
func NewStateChange(attemptID, from, to, detail string) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  CategoryStateChange,
		AttemptID: attemptID,
		StateChange: &StateChangeEvent{
			From:   from,
			To:     to,
			Detail: detail,
		},
	}
}

// NewProvisioning builds a provisioning event.
func NewProvisioning(sessionID, protocol, state, detail string) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  CategoryProvisioning,
		SessionID: sessionID,
		Provisioning: &ProvisioningEvent{
			Protocol: protocol,
			State:    state,
			Detail:   detail,
		},
	}
}

// NewError builds an error event.
func NewError(attemptID, sessionID string, err error) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  CategoryError,
		AttemptID: attemptID,
		SessionID: sessionID,
		Error:     &ErrorEvent{Message: err.Error()},
	}
}
