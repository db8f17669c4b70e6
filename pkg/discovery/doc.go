// Package discovery provides mDNS advertising for the device.
//
// Two service types are advertised:
//
//   - The device service (_wifiman._tcp) announces an operational device
//     once the station holds an address, so controllers on the same
//     network can find it.
//
//   - The provisioning service (_wifiman-prov._tcp) announces an open
//     local access-point pairing session, so a configurator joining the
//     temporary access point can locate the credential intake endpoint.
//
// TXT record encoding and decoding are pure functions so they can be
// tested without network access; the MDNSAdvertiser wires them to
// zeroconf.
package discovery
