package wifi

import "errors"

// Connectivity errors.
var (
	// ErrInvalidMode - the operation requires a different radio mode.
	ErrInvalidMode = errors.New("operation not allowed in current mode")

	// ErrInvalidState - the operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrNoAccessPointConfig - an AP-capable mode was requested before an
	// access point configuration was set.
	ErrNoAccessPointConfig = errors.New("access point not configured")

	// ErrNoCredentials - no saved credentials exist.
	ErrNoCredentials = errors.New("no saved credentials")

	// ErrTimeout - a bounded wait elapsed without resolution.
	ErrTimeout = errors.New("timed out")

	// ErrProvisioningActive - a provisioning session is already active.
	ErrProvisioningActive = errors.New("provisioning session already active")

	// ErrProvisioningInactive - no provisioning session is active.
	ErrProvisioningInactive = errors.New("no active provisioning session")
)

// Classified connection failures, derived from the driver's disconnect
// reason while an attempt is outstanding.
var (
	// ErrWrongPassword - authentication was rejected.
	ErrWrongPassword = errors.New("wrong password")

	// ErrHandshakeTimeout - the authentication handshake timed out.
	ErrHandshakeTimeout = errors.New("authentication handshake timed out")

	// ErrNetworkNotFound - no access point with the requested SSID was
	// found.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrConnectionFailed - the connection failed for another reason.
	ErrConnectionFailed = errors.New("connection failed")
)
