package discovery

import "errors"

// Service types and domain for mDNS advertising.
const (
	// ServiceTypeDevice is the operational device service.
	ServiceTypeDevice = "_wifiman._tcp"

	// ServiceTypeProvisioning is the credential intake service advertised
	// during a local access-point pairing session.
	ServiceTypeProvisioning = "_wifiman-prov._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultPort is used when an info struct does not carry a port.
	DefaultPort = 8443

	// MaxInstanceNameLen is the DNS label limit for instance names.
	MaxInstanceNameLen = 63
)

// TXT record keys.
const (
	TXTKeyDeviceID = "id"
	TXTKeyModel    = "md"
	TXTKeyFirmware = "fw"
	TXTKeySSID     = "ssid"
	TXTKeyProtocol = "pr"
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("discovery: missing required TXT field")
	ErrInvalidTXTRecord    = errors.New("discovery: invalid TXT record")
	ErrNotFound            = errors.New("discovery: service not found")
	ErrInstanceNameInvalid = errors.New("discovery: invalid instance name")
)

// DeviceInfo describes an operational device advertisement.
type DeviceInfo struct {
	// DeviceID uniquely identifies the device. Required.
	DeviceID string

	// Model is the device model string.
	Model string

	// Firmware is the running firmware version.
	Firmware string

	// SSID is the network the station is connected to.
	SSID string

	// Port of the device's service endpoint. 0 selects DefaultPort.
	Port uint16
}

// ProvisioningInfo describes a provisioning service advertisement.
type ProvisioningInfo struct {
	// DeviceID uniquely identifies the device. Required.
	DeviceID string

	// Model is the device model string.
	Model string

	// Protocol names the active pairing protocol.
	Protocol string

	// Port of the credential intake endpoint. 0 selects DefaultPort.
	Port uint16
}
