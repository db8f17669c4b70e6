package fake

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

func TestDriverRecordsCalls(t *testing.T) {
	d := NewDriver()

	if err := d.SetMode(radio.ModeClient); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	want := []string{OpSetMode, OpStart, OpStop}
	got := d.Calls()
	if len(got) != len(want) {
		t.Fatalf("Calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Calls[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if d.CallCount(OpStart) != 1 {
		t.Errorf("CallCount(Start) = %d, want 1", d.CallCount(OpStart))
	}
}

func TestDriverErrorInjection(t *testing.T) {
	d := NewDriver()
	boom := errors.New("boom")

	d.FailWith(OpConnect, boom)
	if err := d.Connect(); !errors.Is(err, boom) {
		t.Errorf("Connect = %v, want injected error", err)
	}

	d.FailWith(OpConnect, nil)
	if err := d.Connect(); err != nil {
		t.Errorf("Connect after clearing injection = %v, want nil", err)
	}
}

func TestStopDropsPairingListener(t *testing.T) {
	d := NewDriver()

	if err := d.StartPairingListener(radio.PairingOptions{Variant: radio.PairingV2, Timeout: 30 * time.Second}); err != nil {
		t.Fatalf("StartPairingListener failed: %v", err)
	}
	if !d.Listening() {
		t.Fatal("Listening = false after StartPairingListener")
	}

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if d.Listening() {
		t.Error("Listening = true after Stop, want false")
	}
}

func TestSimulatedResolvesMatchingNetwork(t *testing.T) {
	addr := netip.MustParseAddr("10.0.0.5")
	d := NewSimulated([]Network{
		{SSID: "HomeNet", Passphrase: "password123", Address: addr},
	}, 0)

	got := make(chan netip.Addr, 1)
	d.SetCallbacks(radio.Callbacks{
		AddressAssigned: func(a netip.Addr) { got <- a },
		Disconnected:    func(radio.DisconnectReason) { t.Error("unexpected disconnect") },
	})

	if err := d.ApplyStationConfig(radio.StationConfig{SSID: "HomeNet", Passphrase: "password123"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Connect(); err != nil {
		t.Fatal(err)
	}

	select {
	case a := <-got:
		if a != addr {
			t.Errorf("address = %s, want %s", a, addr)
		}
	case <-time.After(time.Second):
		t.Fatal("no address-assigned notification")
	}
}

func TestSimulatedWrongPassphrase(t *testing.T) {
	d := NewSimulated([]Network{
		{SSID: "HomeNet", Passphrase: "password123", Address: netip.MustParseAddr("10.0.0.5")},
	}, 0)

	got := make(chan radio.DisconnectReason, 1)
	d.SetCallbacks(radio.Callbacks{
		Disconnected: func(r radio.DisconnectReason) { got <- r },
	})

	if err := d.ApplyStationConfig(radio.StationConfig{SSID: "HomeNet", Passphrase: "wrong-password"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Connect(); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-got:
		if r != radio.ReasonAuthFail {
			t.Errorf("reason = %s, want AUTH_FAIL", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no disconnect notification")
	}
}

func TestSimulatedUnknownSSID(t *testing.T) {
	d := NewSimulated(nil, 0)

	got := make(chan radio.DisconnectReason, 1)
	d.SetCallbacks(radio.Callbacks{
		Disconnected: func(r radio.DisconnectReason) { got <- r },
	})

	if err := d.ApplyStationConfig(radio.StationConfig{SSID: "Nowhere", Passphrase: "password123"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Connect(); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-got:
		if r != radio.ReasonNoAPFound {
			t.Errorf("reason = %s, want NO_AP_FOUND", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no disconnect notification")
	}
}

func TestSimulatedScanReturnsNetworkTable(t *testing.T) {
	d := NewSimulated([]Network{
		{SSID: "A", Record: radio.NetworkRecord{SSID: "A", RSSI: -40}},
		{SSID: "B", Record: radio.NetworkRecord{SSID: "B", RSSI: -70}},
	}, 0)

	records, err := d.Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Scan returned %d records, want 2", len(records))
	}
}
