package wifi

import (
	"net/netip"

	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// Status is a point-in-time snapshot of the connectivity state.
type Status struct {
	// Mode is the current radio mode.
	Mode radio.Mode

	// Phase is the station connection phase.
	Phase Phase

	// Connected is true when the station is associated with an address.
	Connected bool

	// Connecting is true while a connection attempt is outstanding.
	Connecting bool

	// ProvisioningActive is true while a provisioning session is active.
	ProvisioningActive bool

	// Address is the assigned IPv4 address; the zero value when not
	// connected.
	Address netip.Addr

	// LastDisconnectReason is the most recent driver-reported disconnect
	// cause.
	LastDisconnectReason radio.DisconnectReason

	// LastError is the outcome of the most recent failed attempt, nil
	// otherwise. Errors belonging to an attempt that resolved after its
	// initiating call returned are only observable here or via events.
	LastError error
}

// Status returns a snapshot of the connectivity state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	s := Status{
		Mode:                 m.mode,
		Phase:                m.phase,
		Connected:            m.phase == PhaseConnected,
		Connecting:           m.phase == PhaseConnecting,
		Address:              m.address,
		LastDisconnectReason: m.lastReason,
		LastError:            m.lastErr,
	}
	m.mu.Unlock()

	if p := m.provisioner(); p != nil {
		s.ProvisioningActive = p.Active()
	}
	return s
}
