package radio

// Driver is the wireless radio control surface consumed by the connectivity
// core. All methods are synchronous commands; connect/disconnect outcomes
// are reported through Callbacks.
//
// Implementations must tolerate redundant Stop calls (stopping a radio that
// is not started is not an error).
type Driver interface {
	// Start brings the radio up in the currently configured mode.
	Start() error

	// Stop shuts the radio down. Stopping an already stopped radio
	// returns nil.
	Stop() error

	// SetMode selects the radio role(s). The radio should be stopped when
	// the mode is changed.
	SetMode(mode Mode) error

	// ApplyStationConfig pushes the client-side network configuration.
	ApplyStationConfig(cfg StationConfig) error

	// ApplyAccessPointConfig pushes the access point configuration.
	ApplyAccessPointConfig(cfg AccessPointConfig) error

	// Connect begins an association attempt using the last applied
	// station configuration. The outcome arrives via Callbacks.
	Connect() error

	// Disconnect drops the current association. The driver reports the
	// resulting disassociation through the Disconnected callback with a
	// normal-leave reason.
	Disconnect() error

	// Scan performs a blocking scan and returns the raw records.
	Scan() ([]NetworkRecord, error)

	// StartPairingListener begins listening for broadcast pairing frames.
	StartPairingListener(opts PairingOptions) error

	// StopPairingListener stops the pairing listener.
	StopPairingListener() error

	// SetCallbacks registers the notification handlers. Must be called
	// before Start; later calls replace the previous set.
	SetCallbacks(cb Callbacks)
}
