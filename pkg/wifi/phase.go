package wifi

// Phase represents the connection phase of the station role.
type Phase uint8

const (
	// PhaseIdle - no connection attempt has been made.
	PhaseIdle Phase = iota

	// PhaseConnecting - a connection attempt is in progress.
	PhaseConnecting

	// PhaseConnected - the station is associated and has an address.
	PhaseConnected

	// PhaseFailed - the last attempt failed; see Status.LastError.
	PhaseFailed
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseConnecting:
		return "CONNECTING"
	case PhaseConnected:
		return "CONNECTED"
	case PhaseFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
