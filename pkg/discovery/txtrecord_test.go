package discovery

import (
	"errors"
	"strings"
	"testing"
)

func TestDeviceTXTRoundtrip(t *testing.T) {
	info := &DeviceInfo{
		DeviceID: "dev-1234",
		Model:    "wifiman-sim",
		Firmware: "1.2.0",
		SSID:     "HomeNet",
	}

	txt := EncodeDeviceTXT(info)
	decoded, err := DecodeDeviceTXT(txt)
	if err != nil {
		t.Fatalf("DecodeDeviceTXT failed: %v", err)
	}

	if decoded.DeviceID != info.DeviceID {
		t.Errorf("DeviceID = %q, want %q", decoded.DeviceID, info.DeviceID)
	}
	if decoded.Model != info.Model {
		t.Errorf("Model = %q, want %q", decoded.Model, info.Model)
	}
	if decoded.SSID != info.SSID {
		t.Errorf("SSID = %q, want %q", decoded.SSID, info.SSID)
	}
}

func TestDeviceTXTOmitsEmptyOptionals(t *testing.T) {
	txt := EncodeDeviceTXT(&DeviceInfo{DeviceID: "dev-1"})

	if len(txt) != 1 {
		t.Errorf("encoded %d keys, want 1 (id only): %v", len(txt), txt)
	}
}

func TestDecodeDeviceTXTRequiresID(t *testing.T) {
	_, err := DecodeDeviceTXT(TXTRecordMap{TXTKeyModel: "m"})
	if !errors.Is(err, ErrMissingRequired) {
		t.Errorf("DecodeDeviceTXT = %v, want ErrMissingRequired", err)
	}
}

func TestProvisioningTXTRoundtrip(t *testing.T) {
	info := &ProvisioningInfo{
		DeviceID: "dev-1234",
		Model:    "wifiman-sim",
		Protocol: "LOCAL_AP",
	}

	txt := EncodeProvisioningTXT(info)
	decoded, err := DecodeProvisioningTXT(txt)
	if err != nil {
		t.Fatalf("DecodeProvisioningTXT failed: %v", err)
	}
	if decoded.Protocol != "LOCAL_AP" {
		t.Errorf("Protocol = %q, want LOCAL_AP", decoded.Protocol)
	}
}

func TestTXTStringConversion(t *testing.T) {
	txt := TXTRecordMap{"id": "dev-1", "md": "sim"}

	strs := TXTRecordsToStrings(txt)
	if len(strs) != 2 {
		t.Fatalf("got %d strings, want 2", len(strs))
	}

	back := StringsToTXTRecords(strs)
	if back["id"] != "dev-1" || back["md"] != "sim" {
		t.Errorf("roundtrip = %v, want original map", back)
	}
}

func TestStringsToTXTRecordsBooleanFlag(t *testing.T) {
	txt := StringsToTXTRecords([]string{"flag", "k=v"})
	if v, ok := txt["flag"]; !ok || v != "" {
		t.Errorf("flag entry = %q, %v; want empty value present", v, ok)
	}
	if txt["k"] != "v" {
		t.Errorf("k = %q, want v", txt["k"])
	}
}

func TestValidateInstanceName(t *testing.T) {
	if err := ValidateInstanceName("wifiman-dev-1"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateInstanceName(""); err == nil {
		t.Error("empty name accepted")
	}
	if err := ValidateInstanceName(strings.Repeat("x", 64)); err == nil {
		t.Error("overlong name accepted")
	}
}
