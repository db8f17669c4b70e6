package wifi

import (
	"context"
	"time"

	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/event"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// Service is the combined wireless connectivity surface: radio mode
// control, directed connects, credential persistence and the two
// provisioning protocols behind one handle.
type Service struct {
	mgr  *Manager
	prov *Provisioner
}

// New creates a Service from the given configuration.
func New(cfg Config) (*Service, error) {
	mgr, err := NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		mgr:  mgr,
		prov: NewProvisioner(mgr),
	}, nil
}

// Subscribe registers a listener for connectivity and provisioning events.
// Listeners are invoked synchronously in registration order and must not
// block.
func (s *Service) Subscribe(l event.Listener) {
	s.mgr.Subscribe(l)
}

// SetMode switches the radio role(s). See Manager.SetMode.
func (s *Service) SetMode(mode radio.Mode) error {
	return s.mgr.SetMode(mode)
}

// Mode returns the current radio mode.
func (s *Service) Mode() radio.Mode {
	return s.mgr.Mode()
}

// Configure stores the access point configuration for subsequent
// AP-capable mode transitions.
func (s *Service) Configure(cfg radio.AccessPointConfig) error {
	return s.mgr.Configure(cfg)
}

// Config returns the stored access point configuration and whether one has
// been set.
func (s *Service) Config() (radio.AccessPointConfig, bool) {
	return s.mgr.Config()
}

// Connect initiates an asynchronous connection attempt with the given
// credentials. See Manager.Connect.
func (s *Service) Connect(creds credentials.Credentials) error {
	return s.mgr.Connect(creds)
}

// Disconnect drops the current association.
func (s *Service) Disconnect() error {
	return s.mgr.Disconnect()
}

// ConnectSaved connects with the persisted credentials.
func (s *Service) ConnectSaved() error {
	return s.mgr.ConnectSaved()
}

// ConnectSync connects with the persisted credentials and blocks until the
// attempt resolves or the timeout elapses.
func (s *Service) ConnectSync(ctx context.Context, timeout time.Duration) error {
	return s.mgr.ConnectSync(ctx, timeout)
}

// ConnectSyncWith connects with the given credentials and blocks until the
// attempt resolves or the timeout elapses.
func (s *Service) ConnectSyncWith(ctx context.Context, creds credentials.Credentials, timeout time.Duration) error {
	return s.mgr.ConnectSyncWith(ctx, creds, timeout)
}

// SaveCredentials validates and persists a station profile.
func (s *Service) SaveCredentials(ssid, passphrase string) error {
	return s.mgr.SaveCredentials(ssid, passphrase)
}

// LoadCredentials returns the persisted station profile, or nil if none
// exists.
func (s *Service) LoadCredentials() (*credentials.Credentials, error) {
	return s.mgr.LoadCredentials()
}

// StartBroadcastProvisioning begins a broadcast pairing session.
func (s *Service) StartBroadcastProvisioning(opts BroadcastOptions) error {
	return s.prov.StartBroadcast(opts)
}

// StartLocalAPProvisioning begins a local access-point pairing session.
func (s *Service) StartLocalAPProvisioning(opts LocalAPOptions) error {
	return s.prov.StartLocalAP(opts)
}

// SubmitProvisioningCredentials feeds externally received credentials into
// the active provisioning session.
func (s *Service) SubmitProvisioningCredentials(creds credentials.Credentials) error {
	return s.prov.SubmitCredentials(creds)
}

// CancelProvisioning stops the active provisioning session, if any.
func (s *Service) CancelProvisioning() error {
	return s.prov.Cancel()
}

// WaitForProvisioning blocks until the active session completes, the
// timeout elapses, or the session is stopped.
func (s *Service) WaitForProvisioning(ctx context.Context, timeout time.Duration) error {
	return s.prov.Wait(ctx, timeout)
}

// ProvisioningState returns the current provisioning session state.
func (s *Service) ProvisioningState() SessionState {
	return s.prov.State()
}

// Scan returns the visible networks sorted by signal quality.
func (s *Service) Scan() ([]NetworkSummary, error) {
	return s.mgr.Scan()
}

// Status returns a snapshot of the connectivity state.
func (s *Service) Status() Status {
	return s.mgr.Status()
}
