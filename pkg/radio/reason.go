package radio

// DisconnectReason is a driver-reported cause code for an association loss.
// The numeric values follow the IEEE 802.11 reason codes with the common
// vendor extensions in the 200 range.
type DisconnectReason uint16

const (
	// ReasonNone - no disconnect has been observed.
	ReasonNone DisconnectReason = 0

	// ReasonUnspecified - the peer gave no specific cause.
	ReasonUnspecified DisconnectReason = 1

	// ReasonAuthExpire - the authentication lifetime expired.
	ReasonAuthExpire DisconnectReason = 2

	// ReasonAssocLeave - normal leave; the station deauthenticated itself.
	ReasonAssocLeave DisconnectReason = 8

	// ReasonFourWayHandshakeTimeout - the 4-way key handshake timed out.
	ReasonFourWayHandshakeTimeout DisconnectReason = 15

	// ReasonNoAPFound - no access point with the requested SSID was found.
	ReasonNoAPFound DisconnectReason = 201

	// ReasonAuthFail - authentication was rejected (typically a wrong
	// passphrase).
	ReasonAuthFail DisconnectReason = 202

	// ReasonAssocFail - association was rejected.
	ReasonAssocFail DisconnectReason = 203

	// ReasonHandshakeTimeout - the security handshake timed out.
	ReasonHandshakeTimeout DisconnectReason = 204

	// ReasonConnectionFail - the connection failed for another driver-level
	// cause.
	ReasonConnectionFail DisconnectReason = 205
)

// String returns the reason name.
func (r DisconnectReason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonUnspecified:
		return "UNSPECIFIED"
	case ReasonAuthExpire:
		return "AUTH_EXPIRE"
	case ReasonAssocLeave:
		return "ASSOC_LEAVE"
	case ReasonFourWayHandshakeTimeout:
		return "4WAY_HANDSHAKE_TIMEOUT"
	case ReasonNoAPFound:
		return "NO_AP_FOUND"
	case ReasonAuthFail:
		return "AUTH_FAIL"
	case ReasonAssocFail:
		return "ASSOC_FAIL"
	case ReasonHandshakeTimeout:
		return "HANDSHAKE_TIMEOUT"
	case ReasonConnectionFail:
		return "CONNECTION_FAIL"
	default:
		return "UNKNOWN"
	}
}
