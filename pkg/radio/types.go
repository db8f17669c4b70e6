package radio

import (
	"net/netip"
	"time"
)

// AuthMode identifies the security mode of a network.
type AuthMode uint8

const (
	// AuthOpen - no security.
	AuthOpen AuthMode = iota

	// AuthWEP - WEP (legacy).
	AuthWEP

	// AuthWPAPSK - WPA personal.
	AuthWPAPSK

	// AuthWPA2PSK - WPA2 personal.
	AuthWPA2PSK

	// AuthWPA3PSK - WPA3 personal.
	AuthWPA3PSK
)

// String returns the auth mode name.
func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "OPEN"
	case AuthWEP:
		return "WEP"
	case AuthWPAPSK:
		return "WPA_PSK"
	case AuthWPA2PSK:
		return "WPA2_PSK"
	case AuthWPA3PSK:
		return "WPA3_PSK"
	default:
		return "UNKNOWN"
	}
}

// StationConfig is the client-side configuration pushed to the driver
// before a connect attempt.
type StationConfig struct {
	// SSID of the network to join.
	SSID string

	// Passphrase for the network. Empty for open networks.
	Passphrase string
}

// AccessPointConfig configures the access point role.
type AccessPointConfig struct {
	// SSID to announce (1-32 bytes).
	SSID string

	// Channel to operate on. 0 selects the driver default.
	Channel uint8

	// MaxClients limits concurrent stations. 0 selects the driver default.
	MaxClients uint8

	// Hidden suppresses SSID broadcast.
	Hidden bool
}

// NetworkRecord is a raw scan result entry as reported by the driver.
type NetworkRecord struct {
	// SSID of the network. May be empty for hidden networks.
	SSID string

	// BSSID is the access point MAC address.
	BSSID [6]byte

	// RSSI is the received signal strength in dBm.
	RSSI int

	// Channel is the primary channel.
	Channel uint8

	// Auth is the network security mode.
	Auth AuthMode

	// Hidden indicates the SSID was not broadcast.
	Hidden bool
}

// PairingVariant selects the broadcast pairing protocol revision.
type PairingVariant uint8

const (
	// PairingV1 - legacy broadcast pairing.
	PairingV1 PairingVariant = iota

	// PairingV2 - current broadcast pairing. Preferred default.
	PairingV2
)

// String returns the variant name.
func (v PairingVariant) String() string {
	switch v {
	case PairingV1:
		return "V1"
	case PairingV2:
		return "V2"
	default:
		return "UNKNOWN"
	}
}

// Pairing listener timeout bounds accepted by drivers. Requested timeouts
// outside this range are clamped by the caller.
const (
	MinPairingTimeout = 15 * time.Second
	MaxPairingTimeout = 255 * time.Second
)

// PairingOptions configures the driver's pairing listener.
type PairingOptions struct {
	// Variant is the broadcast protocol revision to listen for.
	Variant PairingVariant

	// Timeout bounds how long the listener stays active. Must be within
	// [MinPairingTimeout, MaxPairingTimeout].
	Timeout time.Duration
}

// Callbacks are the asynchronous notifications a driver delivers. All
// callbacks are invoked on the driver's goroutine; handlers must be safe to
// call concurrently with driver commands and should not block.
type Callbacks struct {
	// AddressAssigned fires when the station obtained an IPv4 address.
	AddressAssigned func(addr netip.Addr)

	// Disconnected fires when the station association is lost.
	Disconnected func(reason DisconnectReason)

	// PairingCredentials fires when the pairing listener received
	// credentials from a peer.
	PairingCredentials func(cfg StationConfig)

	// PairingAckSent fires when the driver finished transmitting the
	// pairing acknowledgment to the peer.
	PairingAckSent func()
}
