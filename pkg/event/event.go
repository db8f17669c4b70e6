// Package event defines the connectivity event union and a synchronous
// in-process bus.
//
// Events are emitted by the connection and provisioning state machines and
// fanned out to subscribers in registration order, on whatever goroutine
// triggered the emission - usually the radio driver's callback goroutine.
// Subscribers must not block or perform long-running work; doing so stalls
// driver callback delivery. Subscribers needing to do real work should hand
// the event to their own goroutine.
package event

import (
	"net/netip"

	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// Event is a connectivity state-change notification. The concrete types
// below are the only implementations.
type Event interface {
	isEvent()
}

// Connected reports that the station obtained an address.
type Connected struct {
	// Address is the assigned IPv4 address.
	Address netip.Addr
}

// Disconnected reports a lost association.
type Disconnected struct {
	// Reason is the driver-reported cause.
	Reason radio.DisconnectReason
}

// ConnectionFailed reports a failed or rejected connection attempt.
type ConnectionFailed struct {
	// Err is the classified or validation error.
	Err error
}

// ProvisioningCredentials reports that a pairing peer supplied valid
// credentials which are now being verified.
type ProvisioningCredentials struct {
	Credentials credentials.Credentials
}

// ProvisioningCompleted reports that provisioned credentials were verified
// and persisted.
type ProvisioningCompleted struct {
	Credentials credentials.Credentials

	// Address is the address obtained during verification.
	Address netip.Addr
}

// ProvisioningFailed reports a provisioning error. The session may still
// be active; see the provisioning state machine.
type ProvisioningFailed struct {
	Err error
}

func (Connected) isEvent()               {}
func (Disconnected) isEvent()            {}
func (ConnectionFailed) isEvent()        {}
func (ProvisioningCredentials) isEvent() {}
func (ProvisioningCompleted) isEvent()   {}
func (ProvisioningFailed) isEvent()      {}
