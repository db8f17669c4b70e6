package wifi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/event"
	"github.com/wifiman-project/wifiman-go/pkg/log"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// DefaultPollInterval is the interval at which ConnectSync and
// WaitForProvisioning observe shared state.
const DefaultPollInterval = 500 * time.Millisecond

// Config configures a Manager (and the Service facade).
type Config struct {
	// Driver is the radio driver. Required.
	Driver radio.Driver

	// Store persists the cached station profile. Required.
	Store credentials.Store

	// AccessPoint is the initial access point configuration, applied on
	// the first transition into an AP-capable mode. Optional; it can also
	// be set later via Configure.
	AccessPoint *radio.AccessPointConfig

	// PollInterval overrides DefaultPollInterval for bounded waits.
	PollInterval time.Duration

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLog is the optional structured event capture sink.
	EventLog log.Logger
}

// Manager owns the radio mode and station connection state.
//
// All exported methods are safe for concurrent use. Driver notifications
// are handled inline against the same state under one mutex; the mutex is
// never held across driver commands or event emission.
type Manager struct {
	driver       radio.Driver
	store        credentials.Store
	bus          *event.Bus
	logger       *slog.Logger
	events       log.Logger
	pollInterval time.Duration

	// transition serializes mode changes.
	transition sync.Mutex

	mu           sync.Mutex
	mode         radio.Mode
	apConfig     radio.AccessPointConfig
	apConfigured bool
	phase        Phase
	address      netip.Addr
	lastErr      error
	lastReason   radio.DisconnectReason
	target       *credentials.Credentials
	attemptID    string

	// expectLeave tags an intentional disconnect issued by the manager.
	// The disconnected handler consumes it when the reported reason is a
	// normal leave, suppressing the error and event for that transition.
	expectLeave bool

	provMu sync.Mutex
	prov   *Provisioner
}

// NewManager creates a Manager and registers itself with the driver's
// callbacks. The provided store is wrapped with an in-memory cache.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Driver == nil {
		return nil, errors.New("wifi: Config.Driver is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("wifi: Config.Store is required")
	}

	m := &Manager{
		driver:       cfg.Driver,
		store:        credentials.NewCachedStore(cfg.Store),
		bus:          event.NewBus(),
		logger:       cfg.Logger,
		events:       cfg.EventLog,
		pollInterval: cfg.PollInterval,
	}
	if m.pollInterval <= 0 {
		m.pollInterval = DefaultPollInterval
	}
	if m.events == nil {
		m.events = log.NoopLogger{}
	}

	if cfg.AccessPoint != nil {
		if err := m.Configure(*cfg.AccessPoint); err != nil {
			return nil, err
		}
	}

	cfg.Driver.SetCallbacks(radio.Callbacks{
		AddressAssigned: m.handleAddressAssigned,
		Disconnected:    m.handleDisconnected,
		PairingCredentials: func(sc radio.StationConfig) {
			if p := m.provisioner(); p != nil {
				p.handlePairingCredentials(sc)
			}
		},
		PairingAckSent: func() {
			if p := m.provisioner(); p != nil {
				p.handleAckSent()
			}
		},
	})

	return m, nil
}

// Subscribe registers a listener for connectivity events. Listeners are
// invoked synchronously in registration order and must not block.
func (m *Manager) Subscribe(l event.Listener) {
	m.bus.Subscribe(l)
}

// Mode returns the current radio mode.
func (m *Manager) Mode() radio.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Configure validates and stores the access point configuration for use by
// subsequent SetMode calls. It does not touch the driver.
func (m *Manager) Configure(cfg radio.AccessPointConfig) error {
	if err := (credentials.Credentials{SSID: cfg.SSID, Passphrase: ""}).Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.apConfig = cfg
	m.apConfigured = true
	return nil
}

// Config returns the stored access point configuration and whether one has
// been set.
func (m *Manager) Config() (radio.AccessPointConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apConfig, m.apConfigured
}

// SetMode switches the radio role(s). Switching to the current mode is a
// no-op. On success the connection state is reset; if the new mode is
// client-capable and saved credentials exist, a connection attempt is
// auto-initiated without being awaited. Any in-flight provisioning session
// is aborted by the radio restart.
func (m *Manager) SetMode(mode radio.Mode) error {
	m.transition.Lock()
	changed, err := m.switchMode(mode)
	m.transition.Unlock()
	if err != nil || !changed {
		return err
	}

	// The radio restart killed any active pairing listener.
	if p := m.provisioner(); p != nil {
		p.invalidate()
	}

	if mode.ClientCapable() {
		if creds, err := m.store.Get(); err == nil && creds != nil {
			saved := *creds
			go func() {
				if err := m.Connect(saved); err != nil {
					m.logWarn("auto-connect with saved credentials failed", "ssid", saved.SSID, "err", err)
				}
			}()
		}
	}
	return nil
}

// enterMode is SetMode without session invalidation and auto-connect, used
// by the Provisioner to switch the radio for a pairing session.
func (m *Manager) enterMode(mode radio.Mode) error {
	m.transition.Lock()
	defer m.transition.Unlock()
	_, err := m.switchMode(mode)
	return err
}

// switchMode performs the stop / set-mode / configure / start sequence.
// Returns changed=false without driver calls when already in the requested
// mode. Callers hold m.transition.
func (m *Manager) switchMode(mode radio.Mode) (bool, error) {
	m.mu.Lock()
	current := m.mode
	ap := m.apConfig
	apSet := m.apConfigured
	m.mu.Unlock()

	if mode == current {
		m.logDebug("mode unchanged", "mode", mode.String())
		return false, nil
	}
	if mode.AccessPointCapable() && !apSet {
		return false, ErrNoAccessPointConfig
	}

	if err := m.driver.Stop(); err != nil {
		return false, m.revertOff(fmt.Errorf("stopping radio: %w", err))
	}
	if mode == radio.ModeOff {
		m.commitMode(mode)
		return true, nil
	}
	if err := m.driver.SetMode(mode); err != nil {
		return false, m.revertOff(fmt.Errorf("setting mode %s: %w", mode, err))
	}
	if mode.AccessPointCapable() {
		if err := m.driver.ApplyAccessPointConfig(ap); err != nil {
			return false, m.revertOff(fmt.Errorf("configuring access point: %w", err))
		}
	}
	if err := m.driver.Start(); err != nil {
		return false, m.revertOff(fmt.Errorf("starting radio: %w", err))
	}

	m.commitMode(mode)
	m.logInfo("mode changed", "from", current.String(), "to", mode.String())
	return true, nil
}

// commitMode records the new mode and resets connection state.
func (m *Manager) commitMode(mode radio.Mode) {
	m.mu.Lock()
	from := m.phase
	m.mode = mode
	m.resetAttemptLocked()
	m.mu.Unlock()
	m.events.Log(log.NewStateChange("", from.String(), PhaseIdle.String(), "mode="+mode.String()))
}

// revertOff best-effort rolls the radio back to Off after a failed
// transition and returns err unchanged.
func (m *Manager) revertOff(err error) error {
	_ = m.driver.Stop()
	if serr := m.driver.SetMode(radio.ModeOff); serr != nil {
		m.logWarn("failed to revert radio to off", "err", serr)
	}
	m.commitMode(radio.ModeOff)
	m.logError("mode change failed, radio off", "err", err)
	return err
}

// resetAttemptLocked clears all per-attempt connection state. Callers hold
// m.mu.
func (m *Manager) resetAttemptLocked() {
	m.phase = PhaseIdle
	m.lastErr = nil
	m.lastReason = radio.ReasonNone
	m.address = netip.Addr{}
	m.target = nil
	m.attemptID = ""
	m.expectLeave = false
}

// Connect validates the credentials and initiates an asynchronous
// connection attempt. Requires a client-capable mode. If currently
// associated, the existing association is dropped first; that disconnect is
// tagged as intentional and not reported as a failure.
//
// The credentials become the current target but are not persisted; use
// SaveCredentials for that.
func (m *Manager) Connect(creds credentials.Credentials) error {
	if err := creds.Validate(); err != nil {
		m.rejectAttempt(err)
		return err
	}

	m.mu.Lock()
	mode := m.mode
	connected := m.phase == PhaseConnected
	m.mu.Unlock()

	if !mode.ClientCapable() {
		err := fmt.Errorf("%w: connect requires a client-capable mode, radio is %s", ErrInvalidMode, mode)
		m.rejectAttempt(err)
		return err
	}

	if connected {
		m.disconnectForReconnect()
	}

	return m.beginAttempt(creds)
}

// Disconnect intentionally drops the current association or aborts an
// outstanding attempt. The resulting normal-leave notification is
// suppressed. Disconnecting while idle is a no-op.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	if m.phase != PhaseConnected && m.phase != PhaseConnecting {
		m.mu.Unlock()
		return nil
	}
	m.expectLeave = true
	m.mu.Unlock()

	if err := m.driver.Disconnect(); err != nil {
		m.mu.Lock()
		m.expectLeave = false
		m.mu.Unlock()
		return fmt.Errorf("disconnecting: %w", err)
	}

	m.mu.Lock()
	// The tag survives the reset when the driver delivers the leave
	// notification asynchronously; a synchronous delivery has already
	// consumed it.
	pending := m.expectLeave
	m.resetAttemptLocked()
	m.expectLeave = pending
	m.mu.Unlock()

	m.logInfo("disconnected")
	return nil
}

// ConnectSaved loads the cached/stored credentials and connects with them.
func (m *Manager) ConnectSaved() error {
	creds, err := m.store.Get()
	if err != nil {
		err = fmt.Errorf("loading credentials: %w", err)
		m.rejectAttempt(err)
		return err
	}
	if creds == nil {
		m.rejectAttempt(ErrNoCredentials)
		return ErrNoCredentials
	}
	return m.Connect(*creds)
}

// ConnectSync connects with the saved credentials and blocks until the
// attempt resolves or the timeout elapses.
func (m *Manager) ConnectSync(ctx context.Context, timeout time.Duration) error {
	if err := m.ConnectSaved(); err != nil {
		return err
	}
	return m.waitForConnection(ctx, timeout)
}

// ConnectSyncWith connects with the given credentials and blocks until the
// attempt resolves or the timeout elapses.
func (m *Manager) ConnectSyncWith(ctx context.Context, creds credentials.Credentials, timeout time.Duration) error {
	if err := m.Connect(creds); err != nil {
		return err
	}
	return m.waitForConnection(ctx, timeout)
}

// waitForConnection polls the connection state at the configured interval
// until it reaches a terminal phase or the timeout elapses. It returns as
// soon as a terminal state is observed.
func (m *Manager) waitForConnection(ctx context.Context, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		m.mu.Lock()
		phase := m.phase
		lastErr := m.lastErr
		m.mu.Unlock()

		switch {
		case phase == PhaseConnected:
			return nil
		case lastErr != nil:
			return lastErr
		case phase == PhaseFailed:
			return ErrConnectionFailed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			m.mu.Lock()
			if m.phase == PhaseConnecting {
				m.phase = PhaseFailed
				m.lastErr = ErrTimeout
			}
			m.mu.Unlock()
			m.logWarn("connection attempt timed out", "timeout", timeout)
			return ErrTimeout
		case <-ticker.C:
		}
	}
}

// rejectAttempt reports an attempt that was refused before any driver
// call. The failure is emitted as an event so that observers relying
// purely on events see every failure.
func (m *Manager) rejectAttempt(err error) {
	m.logWarn("connect rejected", "err", err)
	m.events.Log(log.NewError("", "", err))
	m.bus.Emit(event.ConnectionFailed{Err: err})
}

// disconnectForReconnect drops the current association as a step of a new
// connect. The expected-disconnect tag is recorded immediately before the
// driver command so the resulting normal-leave notification is suppressed.
func (m *Manager) disconnectForReconnect() {
	m.mu.Lock()
	m.expectLeave = true
	m.mu.Unlock()

	if err := m.driver.Disconnect(); err != nil {
		m.mu.Lock()
		m.expectLeave = false
		m.mu.Unlock()
		m.logWarn("disconnect before reconnect failed", "err", err)
	}
}

// beginAttempt pushes the station configuration, marks the attempt in
// progress and issues the connect command. The attempt state is recorded
// before the command so a driver outcome delivered immediately after
// Connect lands on the new attempt. Shared by Connect and the provisioning
// credential path, which must not re-validate.
func (m *Manager) beginAttempt(creds credentials.Credentials) error {
	sc := radio.StationConfig{SSID: creds.SSID, Passphrase: creds.Passphrase}
	if err := m.driver.ApplyStationConfig(sc); err != nil {
		return m.recordDriverFailure(fmt.Errorf("configuring station: %w", err))
	}

	id := uuid.NewString()
	m.mu.Lock()
	from := m.phase
	m.phase = PhaseConnecting
	m.lastErr = nil
	m.lastReason = radio.ReasonNone
	m.address = netip.Addr{}
	target := creds
	m.target = &target
	m.attemptID = id
	m.mu.Unlock()

	m.events.Log(log.NewStateChange(id, from.String(), PhaseConnecting.String(), "ssid="+creds.SSID))

	if err := m.driver.Connect(); err != nil {
		return m.recordDriverFailure(fmt.Errorf("initiating connection: %w", err))
	}

	m.logInfo("connection initiated", "ssid", creds.SSID, "attempt_id", id)
	return nil
}

// recordDriverFailure records a synchronous driver error as the attempt
// outcome and emits it.
func (m *Manager) recordDriverFailure(err error) error {
	m.mu.Lock()
	m.phase = PhaseFailed
	m.lastErr = err
	id := m.attemptID
	m.mu.Unlock()

	m.logError("connection attempt failed", "err", err)
	m.events.Log(log.NewError(id, "", err))
	m.bus.Emit(event.ConnectionFailed{Err: err})
	return err
}

// handleAddressAssigned is the driver's got-address notification.
func (m *Manager) handleAddressAssigned(addr netip.Addr) {
	m.mu.Lock()
	from := m.phase
	m.phase = PhaseConnected
	m.lastErr = nil
	m.lastReason = radio.ReasonNone
	m.address = addr
	id := m.attemptID
	m.mu.Unlock()

	m.logInfo("station got address", "address", addr.String())
	m.events.Log(log.NewStateChange(id, from.String(), PhaseConnected.String(), "address="+addr.String()))
	m.bus.Emit(event.Connected{Address: addr})

	// Connectivity is confirmed; pending provisioned credentials may now
	// be persisted.
	if p := m.provisioner(); p != nil {
		p.handleVerified(addr)
	}
}

// handleDisconnected is the driver's disconnected notification.
func (m *Manager) handleDisconnected(reason radio.DisconnectReason) {
	m.mu.Lock()
	wasConnecting := m.phase == PhaseConnecting
	m.address = netip.Addr{}

	if m.expectLeave && reason == radio.ReasonAssocLeave {
		m.expectLeave = false
		m.lastReason = radio.ReasonNone
		m.lastErr = nil
		if m.phase == PhaseConnected {
			m.phase = PhaseIdle
		}
		m.mu.Unlock()
		m.logDebug("station disconnected intentionally")
		return
	}

	m.lastReason = reason
	id := m.attemptID
	from := m.phase
	var classified error
	if wasConnecting {
		classified = classifyDisconnect(reason)
		m.lastErr = classified
		m.phase = PhaseFailed
	} else if m.phase == PhaseConnected {
		m.phase = PhaseIdle
	}
	to := m.phase
	m.mu.Unlock()

	m.logWarn("station disconnected", "reason", reason.String())
	m.events.Log(log.NewStateChange(id, from.String(), to.String(), "reason="+reason.String()))
	m.bus.Emit(event.Disconnected{Reason: reason})
	if classified != nil {
		m.events.Log(log.NewError(id, "", classified))
		m.bus.Emit(event.ConnectionFailed{Err: classified})
	}
}

// classifyDisconnect maps a driver disconnect reason observed during an
// outstanding attempt to a connection failure.
func classifyDisconnect(reason radio.DisconnectReason) error {
	switch reason {
	case radio.ReasonAuthFail:
		return ErrWrongPassword
	case radio.ReasonAuthExpire, radio.ReasonFourWayHandshakeTimeout, radio.ReasonHandshakeTimeout:
		return ErrHandshakeTimeout
	case radio.ReasonNoAPFound:
		return ErrNetworkNotFound
	default:
		return fmt.Errorf("%w: reason %s", ErrConnectionFailed, reason)
	}
}

// SaveCredentials validates and persists a station profile.
func (m *Manager) SaveCredentials(ssid, passphrase string) error {
	creds, err := credentials.New(ssid, passphrase)
	if err != nil {
		return err
	}
	if err := m.store.Set(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	m.logInfo("credentials saved", "ssid", ssid)
	return nil
}

// LoadCredentials returns the cached/stored station profile, or nil if
// none exists.
func (m *Manager) LoadCredentials() (*credentials.Credentials, error) {
	return m.store.Get()
}

// attachProvisioner registers the provisioner receiving pairing
// notifications and verification hand-offs.
func (m *Manager) attachProvisioner(p *Provisioner) {
	m.provMu.Lock()
	defer m.provMu.Unlock()
	m.prov = p
}

func (m *Manager) provisioner() *Provisioner {
	m.provMu.Lock()
	defer m.provMu.Unlock()
	return m.prov
}

func (m *Manager) logDebug(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *Manager) logInfo(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Info(msg, args...)
	}
}

func (m *Manager) logWarn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}

func (m *Manager) logError(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Error(msg, args...)
	}
}
