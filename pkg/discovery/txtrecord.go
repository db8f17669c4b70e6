package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeDeviceTXT creates TXT records for an operational device
// advertisement.
func EncodeDeviceTXT(info *DeviceInfo) TXTRecordMap {
	txt := make(TXTRecordMap)
	txt[TXTKeyDeviceID] = info.DeviceID

	if info.Model != "" {
		txt[TXTKeyModel] = info.Model
	}
	if info.Firmware != "" {
		txt[TXTKeyFirmware] = info.Firmware
	}
	if info.SSID != "" {
		txt[TXTKeySSID] = info.SSID
	}
	return txt
}

// DecodeDeviceTXT parses TXT records from an operational device
// advertisement.
func DecodeDeviceTXT(txt TXTRecordMap) (*DeviceInfo, error) {
	info := &DeviceInfo{}

	var ok bool
	info.DeviceID, ok = txt[TXTKeyDeviceID]
	if !ok || info.DeviceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDeviceID)
	}

	info.Model = txt[TXTKeyModel]
	info.Firmware = txt[TXTKeyFirmware]
	info.SSID = txt[TXTKeySSID]
	return info, nil
}

// EncodeProvisioningTXT creates TXT records for a provisioning
// advertisement.
func EncodeProvisioningTXT(info *ProvisioningInfo) TXTRecordMap {
	txt := make(TXTRecordMap)
	txt[TXTKeyDeviceID] = info.DeviceID

	if info.Model != "" {
		txt[TXTKeyModel] = info.Model
	}
	if info.Protocol != "" {
		txt[TXTKeyProtocol] = info.Protocol
	}
	return txt
}

// DecodeProvisioningTXT parses TXT records from a provisioning
// advertisement.
func DecodeProvisioningTXT(txt TXTRecordMap) (*ProvisioningInfo, error) {
	info := &ProvisioningInfo{}

	var ok bool
	info.DeviceID, ok = txt[TXTKeyDeviceID]
	if !ok || info.DeviceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDeviceID)
	}

	info.Model = txt[TXTKeyModel]
	info.Protocol = txt[TXTKeyProtocol]
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format zeroconf expects.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a
// TXTRecordMap. A key without '=' becomes a boolean flag.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameInvalid)
	}
	if len(name) > MaxInstanceNameLen {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInstanceNameInvalid, name, MaxInstanceNameLen)
	}
	return nil
}
