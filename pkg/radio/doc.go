// Package radio defines the contract between the connectivity core and a
// wireless radio driver.
//
// A Driver exposes synchronous mode and connection control plus a pairing
// listener for out-of-band credential provisioning. Results of a connect
// attempt are not returned by Connect itself - the driver reports them
// asynchronously through registered Callbacks, on its own goroutine.
//
// Implementations wrap a real chip or supplicant interface; pkg/radio/fake
// provides an in-memory implementation for tests and demos.
package radio
