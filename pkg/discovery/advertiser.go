package discovery

import "time"

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// AdvertiseDevice starts advertising the operational device service.
	// A previous device advertisement is replaced.
	AdvertiseDevice(info *DeviceInfo) error

	// UpdateDevice updates TXT records of the device advertisement.
	UpdateDevice(info *DeviceInfo) error

	// StopDevice stops the device advertisement.
	StopDevice() error

	// AdvertiseProvisioning starts advertising the provisioning service.
	// A previous provisioning advertisement is replaced.
	AdvertiseProvisioning(info *ProvisioningInfo) error

	// StopProvisioning stops the provisioning advertisement.
	StopProvisioning() error

	// StopAll stops all advertisements.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}
