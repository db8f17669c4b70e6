package radio

// Mode represents which radio role(s) are active.
type Mode uint8

const (
	// ModeOff - radio disabled.
	ModeOff Mode = iota

	// ModeClient - station role only; can originate outbound connections.
	ModeClient

	// ModeAccessPoint - access point role only.
	ModeAccessPoint

	// ModeClientAndAccessPoint - station and access point simultaneously.
	ModeClientAndAccessPoint
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModeClient:
		return "CLIENT"
	case ModeAccessPoint:
		return "ACCESS_POINT"
	case ModeClientAndAccessPoint:
		return "CLIENT_AND_ACCESS_POINT"
	default:
		return "UNKNOWN"
	}
}

// ClientCapable returns true if the mode can originate an outbound connection.
func (m Mode) ClientCapable() bool {
	return m == ModeClient || m == ModeClientAndAccessPoint
}

// AccessPointCapable returns true if the mode serves an access point.
func (m Mode) AccessPointCapable() bool {
	return m == ModeAccessPoint || m == ModeClientAndAccessPoint
}
