// Package fake provides an in-memory radio.Driver implementation for tests
// and demos.
//
// The fake records every command, supports per-operation error injection,
// and exposes Deliver* methods so tests can fire driver notifications
// deterministically. With a configured network table and AutoRespond
// enabled, Connect resolves on its own after Latency: a matching SSID and
// passphrase yields an address-assigned notification, a wrong passphrase an
// AUTH_FAIL disconnect, and an unknown SSID a NO_AP_FOUND disconnect.
package fake

import (
	"net/netip"
	"sync"
	"time"

	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// Operation names used for call recording and error injection.
const (
	OpStart                = "Start"
	OpStop                 = "Stop"
	OpSetMode              = "SetMode"
	OpApplyStationConfig   = "ApplyStationConfig"
	OpApplyAPConfig        = "ApplyAccessPointConfig"
	OpConnect              = "Connect"
	OpDisconnect           = "Disconnect"
	OpScan                 = "Scan"
	OpStartPairingListener = "StartPairingListener"
	OpStopPairingListener  = "StopPairingListener"
)

// Network describes a simulated network the auto-responder can resolve
// against.
type Network struct {
	SSID       string
	Passphrase string
	Address    netip.Addr
	Record     radio.NetworkRecord
}

// Driver is an in-memory radio.Driver.
type Driver struct {
	mu sync.Mutex

	callbacks radio.Callbacks

	mode      radio.Mode
	started   bool
	listening bool

	station     radio.StationConfig
	accessPoint radio.AccessPointConfig
	pairingOpts radio.PairingOptions

	// AutoRespond resolves Connect against Networks after Latency.
	autoRespond bool
	latency     time.Duration
	networks    []Network

	scanResults []radio.NetworkRecord
	errs        map[string]error
	calls       []string
}

// NewDriver creates a fake driver. Without AutoRespond, connect outcomes
// are only produced by explicit Deliver* calls.
func NewDriver() *Driver {
	return &Driver{errs: make(map[string]error)}
}

// NewSimulated creates a fake driver that resolves connect attempts
// against the given network table after the given latency.
func NewSimulated(networks []Network, latency time.Duration) *Driver {
	d := NewDriver()
	d.autoRespond = true
	d.latency = latency
	d.networks = networks
	for _, n := range networks {
		d.scanResults = append(d.scanResults, n.Record)
	}
	return d
}

// FailWith makes the named operation return err. A nil err clears the
// injection.
func (d *Driver) FailWith(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.errs, op)
		return
	}
	d.errs[op] = err
}

// SetScanResults sets the records returned by Scan.
func (d *Driver) SetScanResults(records []radio.NetworkRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanResults = records
}

// Calls returns the recorded operation names in order.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallCount returns how many times the named operation was invoked.
func (d *Driver) CallCount(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Mode returns the current mode.
func (d *Driver) Mode() radio.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Started returns true if the radio is started.
func (d *Driver) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Listening returns true if the pairing listener is active.
func (d *Driver) Listening() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listening
}

// StationConfig returns the last applied station configuration.
func (d *Driver) StationConfig() radio.StationConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.station
}

// AccessPointConfig returns the last applied access point configuration.
func (d *Driver) AccessPointConfig() radio.AccessPointConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accessPoint
}

// PairingOptions returns the options from the last StartPairingListener.
func (d *Driver) PairingOptions() radio.PairingOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pairingOpts
}

// record appends the call and returns the injected error, if any.
func (d *Driver) record(op string) error {
	d.calls = append(d.calls, op)
	return d.errs[op]
}

// Start implements radio.Driver.
func (d *Driver) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpStart); err != nil {
		return err
	}
	d.started = true
	return nil
}

// Stop implements radio.Driver. Stopping also drops the pairing listener,
// as a real radio restart would.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpStop); err != nil {
		return err
	}
	d.started = false
	d.listening = false
	return nil
}

// SetMode implements radio.Driver.
func (d *Driver) SetMode(mode radio.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpSetMode); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// ApplyStationConfig implements radio.Driver.
func (d *Driver) ApplyStationConfig(cfg radio.StationConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpApplyStationConfig); err != nil {
		return err
	}
	d.station = cfg
	return nil
}

// ApplyAccessPointConfig implements radio.Driver.
func (d *Driver) ApplyAccessPointConfig(cfg radio.AccessPointConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpApplyAPConfig); err != nil {
		return err
	}
	d.accessPoint = cfg
	return nil
}

// Connect implements radio.Driver.
func (d *Driver) Connect() error {
	d.mu.Lock()
	if err := d.record(OpConnect); err != nil {
		d.mu.Unlock()
		return err
	}
	auto := d.autoRespond
	station := d.station
	latency := d.latency
	d.mu.Unlock()

	if auto {
		go d.resolve(station, latency)
	}
	return nil
}

// resolve simulates the association outcome for a connect attempt.
func (d *Driver) resolve(station radio.StationConfig, latency time.Duration) {
	time.Sleep(latency)
	for _, n := range d.networks {
		if n.SSID != station.SSID {
			continue
		}
		if n.Passphrase == station.Passphrase {
			d.DeliverAddressAssigned(n.Address)
		} else {
			d.DeliverDisconnected(radio.ReasonAuthFail)
		}
		return
	}
	d.DeliverDisconnected(radio.ReasonNoAPFound)
}

// Disconnect implements radio.Driver. It reports the resulting
// disassociation as a normal leave.
func (d *Driver) Disconnect() error {
	d.mu.Lock()
	if err := d.record(OpDisconnect); err != nil {
		d.mu.Unlock()
		return err
	}
	auto := d.autoRespond
	d.mu.Unlock()

	if auto {
		d.DeliverDisconnected(radio.ReasonAssocLeave)
	}
	return nil
}

// Scan implements radio.Driver.
func (d *Driver) Scan() ([]radio.NetworkRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpScan); err != nil {
		return nil, err
	}
	out := make([]radio.NetworkRecord, len(d.scanResults))
	copy(out, d.scanResults)
	return out, nil
}

// StartPairingListener implements radio.Driver.
func (d *Driver) StartPairingListener(opts radio.PairingOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpStartPairingListener); err != nil {
		return err
	}
	d.listening = true
	d.pairingOpts = opts
	return nil
}

// StopPairingListener implements radio.Driver.
func (d *Driver) StopPairingListener() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(OpStopPairingListener); err != nil {
		return err
	}
	d.listening = false
	return nil
}

// SetCallbacks implements radio.Driver.
func (d *Driver) SetCallbacks(cb radio.Callbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = cb
}

// DeliverAddressAssigned fires the address-assigned callback.
func (d *Driver) DeliverAddressAssigned(addr netip.Addr) {
	d.mu.Lock()
	cb := d.callbacks.AddressAssigned
	d.mu.Unlock()
	if cb != nil {
		cb(addr)
	}
}

// DeliverDisconnected fires the disconnected callback.
func (d *Driver) DeliverDisconnected(reason radio.DisconnectReason) {
	d.mu.Lock()
	cb := d.callbacks.Disconnected
	d.mu.Unlock()
	if cb != nil {
		cb(reason)
	}
}

// DeliverPairingCredentials fires the pairing-credentials callback.
func (d *Driver) DeliverPairingCredentials(cfg radio.StationConfig) {
	d.mu.Lock()
	cb := d.callbacks.PairingCredentials
	d.mu.Unlock()
	if cb != nil {
		cb(cfg)
	}
}

// DeliverPairingAckSent fires the pairing-ack-sent callback.
func (d *Driver) DeliverPairingAckSent() {
	d.mu.Lock()
	cb := d.callbacks.PairingAckSent
	d.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Compile-time interface satisfaction check.
var _ radio.Driver = (*Driver)(nil)
