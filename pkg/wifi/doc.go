// Package wifi implements the connectivity lifecycle of a single wireless
// radio: mode control, directed connection attempts with bounded wait and
// failure classification, out-of-band credential provisioning, and
// persistence of verified credentials.
//
// # Components
//
//   - Manager owns the radio mode and connection state. It translates
//     caller intent into driver commands and reconciles the driver's
//     asynchronous notifications with synchronous, timeout-bounded APIs.
//   - Provisioner manages the exclusive lifecycle of a credential pairing
//     session. Credentials received from a peer are only persisted after
//     connectivity has been independently confirmed.
//   - Service is a facade owning both, constructed from a Config with an
//     injected radio.Driver and credentials.Store.
//
// # Concurrency
//
// Driver notifications arrive on the driver's goroutine and are handled
// inline against a mutex-guarded state aggregate. Events fan out
// synchronously on the triggering goroutine; subscribers must not block.
// ConnectSync and WaitForProvisioning are the only blocking surfaces; both
// poll at a fixed interval bounded by an explicit timeout and return as
// soon as a terminal state is observed.
//
// Only one connection attempt and one provisioning session may be
// outstanding at a time. Issuing a new connect or changing the mode
// invalidates the previous attempt; stale driver completions are simply
// overwritten.
package wifi
