package wifi

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/event"
	"github.com/wifiman-project/wifiman-go/pkg/log"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// Protocol identifies a credential provisioning protocol.
type Protocol uint8

const (
	// ProtocolBroadcast - credentials are received by a driver-level
	// listener while the radio is in a client-capable discovery state.
	ProtocolBroadcast Protocol = iota

	// ProtocolLocalAP - the device exposes a temporary access point for
	// credential intake. The intake channel itself is external; received
	// credentials enter through SubmitCredentials.
	ProtocolLocalAP
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolBroadcast:
		return "BROADCAST"
	case ProtocolLocalAP:
		return "LOCAL_AP"
	default:
		return "UNKNOWN"
	}
}

// SessionState represents the provisioning session state.
type SessionState uint8

const (
	// SessionIdle - no session is active.
	SessionIdle SessionState = iota

	// SessionListening - waiting for a peer to supply credentials.
	SessionListening

	// SessionCredentialsReceived - credentials accepted, about to verify.
	SessionCredentialsReceived

	// SessionConnecting - verification connect attempt in progress.
	SessionConnecting

	// SessionAckPending - credentials verified and persisted; the
	// broadcast listener stays up until the driver confirms the peer
	// acknowledgment was transmitted.
	SessionAckPending

	// SessionCompleted - credentials verified and persisted.
	SessionCompleted

	// SessionFailed - the last verification step failed. The session
	// remains active so the peer can retry.
	SessionFailed
)

// String returns the session state name.
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "IDLE"
	case SessionListening:
		return "LISTENING"
	case SessionCredentialsReceived:
		return "CREDENTIALS_RECEIVED"
	case SessionConnecting:
		return "CONNECTING"
	case SessionAckPending:
		return "ACK_PENDING"
	case SessionCompleted:
		return "COMPLETED"
	case SessionFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// DefaultBroadcastTimeout is the pairing listener timeout used when the
// caller does not specify one.
const DefaultBroadcastTimeout = 60 * time.Second

// BroadcastOptions configures a broadcast pairing session.
type BroadcastOptions struct {
	// Variant is the broadcast protocol revision.
	Variant radio.PairingVariant

	// Timeout bounds the pairing listener. Clamped to the driver's
	// accepted range; 0 selects DefaultBroadcastTimeout.
	Timeout time.Duration
}

// LocalAPOptions configures a local access-point pairing session.
type LocalAPOptions struct {
	// AccessPoint is the temporary access point to expose.
	AccessPoint radio.AccessPointConfig
}

// session is the state of one provisioning attempt. At most one exists
// system-wide.
type session struct {
	id       string
	protocol Protocol
	state    SessionState
	pending  *credentials.Credentials
}

// Provisioner manages the exclusive lifecycle of a credential pairing
// session. Credentials supplied by a peer are verified by connecting with
// them and are persisted only after the driver confirms an address.
type Provisioner struct {
	mgr *Manager

	mu   sync.Mutex
	sess *session
	done bool
}

// NewProvisioner creates a Provisioner bound to the manager's driver and
// shared connection state.
func NewProvisioner(mgr *Manager) *Provisioner {
	p := &Provisioner{mgr: mgr}
	mgr.attachProvisioner(p)
	return p
}

// Active returns true while a session is active.
func (p *Provisioner) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sess != nil
}

// State returns the current session state, SessionIdle if none is active.
func (p *Provisioner) State() SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return SessionIdle
	}
	return p.sess.state
}

// SessionID returns the active session's ID, or "" if none is active.
func (p *Provisioner) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return ""
	}
	return p.sess.id
}

// claim atomically checks the single-session invariant and installs a new
// session. An active session is left untouched on conflict.
func (p *Provisioner) claim(protocol Protocol) (*session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess != nil {
		return nil, ErrProvisioningActive
	}
	s := &session{
		id:       uuid.NewString(),
		protocol: protocol,
		state:    SessionListening,
	}
	p.sess = s
	p.done = false
	return s, nil
}

// StartBroadcast begins a broadcast pairing session: the radio is switched
// into a client-capable listening mode and the driver's pairing listener is
// started. Fails with ErrProvisioningActive if a session is already active.
func (p *Provisioner) StartBroadcast(opts BroadcastOptions) error {
	sess, err := p.claim(ProtocolBroadcast)
	if err != nil {
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return err
	}

	if err := p.mgr.enterMode(radio.ModeClient); err != nil {
		return p.abortStart(sess, err)
	}

	listenerOpts := radio.PairingOptions{
		Variant: opts.Variant,
		Timeout: clampPairingTimeout(opts.Timeout),
	}
	if err := p.mgr.driver.StartPairingListener(listenerOpts); err != nil {
		return p.abortStart(sess, fmt.Errorf("starting pairing listener: %w", err))
	}

	p.mgr.logInfo("broadcast provisioning started",
		"session_id", sess.id, "variant", listenerOpts.Variant.String(), "timeout", listenerOpts.Timeout)
	p.mgr.events.Log(log.NewProvisioning(sess.id, ProtocolBroadcast.String(), SessionListening.String(), ""))
	return nil
}

// StartLocalAP begins a local access-point pairing session: the supplied
// access point parameters are applied and the radio switches to an
// AP-capable mode. Credentials arrive through SubmitCredentials.
func (p *Provisioner) StartLocalAP(opts LocalAPOptions) error {
	sess, err := p.claim(ProtocolLocalAP)
	if err != nil {
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return err
	}

	if err := p.mgr.Configure(opts.AccessPoint); err != nil {
		return p.abortStart(sess, err)
	}
	if err := p.mgr.enterMode(radio.ModeClientAndAccessPoint); err != nil {
		return p.abortStart(sess, err)
	}

	p.mgr.logInfo("local access-point provisioning started",
		"session_id", sess.id, "ssid", opts.AccessPoint.SSID)
	p.mgr.events.Log(log.NewProvisioning(sess.id, ProtocolLocalAP.String(), SessionListening.String(), "ssid="+opts.AccessPoint.SSID))
	return nil
}

// abortStart rolls back a session whose setup failed and reports the
// failure.
func (p *Provisioner) abortStart(sess *session, err error) error {
	p.mu.Lock()
	if p.sess == sess {
		p.sess = nil
	}
	p.mu.Unlock()

	p.mgr.logError("provisioning start failed", "session_id", sess.id, "err", err)
	p.mgr.events.Log(log.NewError("", sess.id, err))
	p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
	return err
}

// SubmitCredentials feeds externally received credentials into the active
// session. This is the intake point for the local access-point protocol,
// whose transport is outside this package.
func (p *Provisioner) SubmitCredentials(creds credentials.Credentials) error {
	p.mu.Lock()
	sess := p.sess
	p.mu.Unlock()
	if sess == nil {
		return ErrProvisioningInactive
	}

	if err := creds.Validate(); err != nil {
		p.mgr.events.Log(log.NewError("", sess.id, err))
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return err
	}
	return p.intake(sess, creds)
}

// handlePairingCredentials is the driver's pairing-credentials
// notification for the broadcast protocol.
func (p *Provisioner) handlePairingCredentials(sc radio.StationConfig) {
	p.mu.Lock()
	sess := p.sess
	if sess == nil || sess.protocol != ProtocolBroadcast ||
		sess.state == SessionAckPending || sess.state == SessionCompleted {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	creds, err := credentials.New(sc.SSID, sc.Passphrase)
	if err != nil {
		// Leave the session listening; the peer may retry.
		p.mgr.logWarn("pairing peer sent invalid credentials", "err", err)
		p.mgr.events.Log(log.NewError("", sess.id, err))
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return
	}

	_ = p.intake(sess, creds)
}

// intake records accepted credentials as pending and starts the
// verification connect. The driver sequence matches a regular connect but
// bypasses the public API to avoid re-validation.
func (p *Provisioner) intake(sess *session, creds credentials.Credentials) error {
	p.mu.Lock()
	if p.sess != sess {
		p.mu.Unlock()
		return ErrProvisioningInactive
	}
	pending := creds
	sess.pending = &pending
	sess.state = SessionCredentialsReceived
	p.mu.Unlock()

	p.mgr.logInfo("provisioning credentials received", "session_id", sess.id, "ssid", creds.SSID)
	p.mgr.events.Log(log.NewProvisioning(sess.id, sess.protocol.String(), SessionCredentialsReceived.String(), "ssid="+creds.SSID))
	p.mgr.bus.Emit(event.ProvisioningCredentials{Credentials: creds})

	if err := p.mgr.beginAttempt(creds); err != nil {
		// The session stays active; the caller decides whether to retry
		// or cancel.
		p.mu.Lock()
		if p.sess == sess {
			sess.pending = nil
			sess.state = SessionFailed
		}
		p.mu.Unlock()
		p.mgr.events.Log(log.NewError("", sess.id, err))
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return err
	}

	p.mu.Lock()
	if p.sess == sess && sess.state == SessionCredentialsReceived {
		sess.state = SessionConnecting
	}
	p.mu.Unlock()
	return nil
}

// handleVerified is invoked by the manager once the driver confirms an
// address. Pending credentials are now known to work and are persisted.
func (p *Provisioner) handleVerified(addr netip.Addr) {
	p.mu.Lock()
	sess := p.sess
	if sess == nil || sess.pending == nil {
		p.mu.Unlock()
		return
	}
	creds := *sess.pending
	p.mu.Unlock()

	if err := p.mgr.store.Set(creds); err != nil {
		err = fmt.Errorf("persisting provisioned credentials: %w", err)
		p.mu.Lock()
		if p.sess == sess {
			sess.pending = nil
			sess.state = SessionFailed
		}
		p.mu.Unlock()
		p.mgr.logError("provisioning failed", "session_id", sess.id, "err", err)
		p.mgr.events.Log(log.NewError("", sess.id, err))
		p.mgr.bus.Emit(event.ProvisioningFailed{Err: err})
		return
	}

	p.mu.Lock()
	if p.sess == sess {
		sess.pending = nil
		if sess.protocol == ProtocolBroadcast {
			// The peer's UX depends on receiving the driver-level
			// acknowledgment; keep the listener up until AckSent.
			sess.state = SessionAckPending
		} else {
			sess.state = SessionCompleted
			p.sess = nil
		}
	}
	p.done = true
	p.mu.Unlock()

	p.mgr.logInfo("provisioning completed", "session_id", sess.id, "ssid", creds.SSID, "address", addr.String())
	p.mgr.events.Log(log.NewProvisioning(sess.id, sess.protocol.String(), SessionCompleted.String(), "address="+addr.String()))
	p.mgr.bus.Emit(event.ProvisioningCompleted{Credentials: creds, Address: addr})
}

// handleAckSent is the driver's confirmation that the pairing
// acknowledgment reached the peer. It triggers final teardown of a
// broadcast session.
func (p *Provisioner) handleAckSent() {
	p.mu.Lock()
	sess := p.sess
	if sess == nil || sess.state != SessionAckPending {
		p.mu.Unlock()
		return
	}
	p.sess = nil
	p.mu.Unlock()

	if err := p.mgr.driver.StopPairingListener(); err != nil {
		p.mgr.logWarn("stopping pairing listener failed", "err", err)
	}
	p.mgr.logInfo("pairing acknowledgment delivered, session closed", "session_id", sess.id)
	p.mgr.events.Log(log.NewProvisioning(sess.id, sess.protocol.String(), SessionIdle.String(), "ack delivered"))
}

// Cancel stops the active session and releases its driver resources.
// Safe to call repeatedly; canceling with no active session is a no-op.
func (p *Provisioner) Cancel() error {
	p.mu.Lock()
	sess := p.sess
	p.sess = nil
	p.mu.Unlock()

	if sess == nil {
		return nil
	}

	if sess.protocol == ProtocolBroadcast {
		if err := p.mgr.driver.StopPairingListener(); err != nil {
			p.mgr.logWarn("stopping pairing listener failed", "err", err)
		}
	}

	p.mgr.logInfo("provisioning canceled", "session_id", sess.id)
	p.mgr.events.Log(log.NewProvisioning(sess.id, sess.protocol.String(), SessionIdle.String(), "canceled"))
	return nil
}

// invalidate drops the session after a mode change already stopped the
// radio (and with it any pairing listener).
func (p *Provisioner) invalidate() {
	p.mu.Lock()
	sess := p.sess
	p.sess = nil
	p.mu.Unlock()

	if sess == nil {
		return
	}
	p.mgr.logInfo("provisioning session aborted by mode change", "session_id", sess.id)
	p.mgr.events.Log(log.NewProvisioning(sess.id, sess.protocol.String(), SessionIdle.String(), "aborted by mode change"))
}

// Wait blocks until the active session completes (credentials verified and
// persisted), the timeout elapses, or the session is stopped externally.
func (p *Provisioner) Wait(ctx context.Context, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(p.mgr.pollInterval)
	defer ticker.Stop()

	for {
		p.mu.Lock()
		done := p.done
		active := p.sess != nil
		p.mu.Unlock()

		if done {
			return nil
		}
		if !active {
			return ErrProvisioningInactive
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w: provisioning did not complete within %s", ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}

// clampPairingTimeout bounds a requested listener timeout to the driver's
// accepted range.
func clampPairingTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		d = DefaultBroadcastTimeout
	}
	if d < radio.MinPairingTimeout {
		return radio.MinPairingTimeout
	}
	if d > radio.MaxPairingTimeout {
		return radio.MaxPairingTimeout
	}
	return d
}
