package wifi

import (
	"fmt"
	"sort"

	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

// NetworkSummary is a formatted scan result entry.
type NetworkSummary struct {
	// SSID of the network.
	SSID string

	// BSSID is the access point MAC address, formatted AA:BB:CC:DD:EE:FF.
	BSSID string

	// RSSI is the received signal strength in dBm.
	RSSI int

	// Signal is the signal quality in percent (0-100), derived from RSSI.
	Signal int

	// Channel is the primary channel.
	Channel uint8

	// Auth is the network security mode.
	Auth radio.AuthMode

	// Hidden indicates the SSID was not broadcast.
	Hidden bool

	// Connected is true if this is the network the station is currently
	// connected to.
	Connected bool
}

// Scan performs a blocking scan and returns the visible networks sorted by
// signal quality, strongest first. Entries without an SSID are dropped.
// The radio must be started in some mode.
func (m *Manager) Scan() ([]NetworkSummary, error) {
	m.mu.Lock()
	mode := m.mode
	connected := m.phase == PhaseConnected
	var currentSSID string
	if m.target != nil {
		currentSSID = m.target.SSID
	}
	m.mu.Unlock()

	if mode == radio.ModeOff {
		return nil, fmt.Errorf("%w: cannot scan with radio off", ErrInvalidState)
	}

	records, err := m.driver.Scan()
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	networks := make([]NetworkSummary, 0, len(records))
	for _, r := range records {
		if r.SSID == "" {
			continue
		}
		networks = append(networks, NetworkSummary{
			SSID:      r.SSID,
			BSSID:     formatBSSID(r.BSSID),
			RSSI:      r.RSSI,
			Signal:    signalQuality(r.RSSI),
			Channel:   r.Channel,
			Auth:      r.Auth,
			Hidden:    r.Hidden,
			Connected: connected && currentSSID != "" && currentSSID == r.SSID,
		})
	}

	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].Signal > networks[j].Signal
	})
	return networks, nil
}

// signalQuality maps an RSSI in dBm to a 0-100 quality percentage.
// -100 dBm and below is 0, -50 dBm and above is 100, linear in between.
func signalQuality(rssi int) int {
	if rssi <= -100 {
		return 0
	}
	if rssi >= -50 {
		return 100
	}
	return 2 * (rssi + 100)
}

// formatBSSID renders a MAC address as colon-separated uppercase hex.
func formatBSSID(bssid [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		bssid[0], bssid[1], bssid[2], bssid[3], bssid[4], bssid[5])
}
