package discovery

import (
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu sync.Mutex

	deviceServer       *zeroconf.Server
	provisioningServer *zeroconf.Server
}

var _ Advertiser = (*MDNSAdvertiser)(nil)

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{config: config}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

func (a *MDNSAdvertiser) serverOptions() []zeroconf.ServerOption {
	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}
	return opts
}

// AdvertiseDevice starts advertising the operational device service.
func (a *MDNSAdvertiser) AdvertiseDevice(info *DeviceInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deviceServer != nil {
		a.deviceServer.Shutdown()
		a.deviceServer = nil
	}

	instanceName := "wifiman-" + info.DeviceID
	if len(instanceName) > MaxInstanceNameLen {
		instanceName = instanceName[:MaxInstanceNameLen]
	}

	txtStrings := TXTRecordsToStrings(EncodeDeviceTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	server, err := zeroconf.Register(
		instanceName,
		ServiceTypeDevice,
		Domain,
		port,
		txtStrings,
		a.getInterfaces(),
		a.serverOptions()...,
	)
	if err != nil {
		return fmt.Errorf("failed to register device service: %w", err)
	}

	a.deviceServer = server
	return nil
}

// UpdateDevice updates TXT records of the device advertisement.
func (a *MDNSAdvertiser) UpdateDevice(info *DeviceInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deviceServer == nil {
		return ErrNotFound
	}
	a.deviceServer.SetText(TXTRecordsToStrings(EncodeDeviceTXT(info)))
	return nil
}

// StopDevice stops the device advertisement.
func (a *MDNSAdvertiser) StopDevice() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deviceServer != nil {
		a.deviceServer.Shutdown()
		a.deviceServer = nil
	}
	return nil
}

// AdvertiseProvisioning starts advertising the provisioning service.
func (a *MDNSAdvertiser) AdvertiseProvisioning(info *ProvisioningInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provisioningServer != nil {
		a.provisioningServer.Shutdown()
		a.provisioningServer = nil
	}

	instanceName := "wifiman-setup-" + info.DeviceID
	if len(instanceName) > MaxInstanceNameLen {
		instanceName = instanceName[:MaxInstanceNameLen]
	}

	txtStrings := TXTRecordsToStrings(EncodeProvisioningTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	server, err := zeroconf.Register(
		instanceName,
		ServiceTypeProvisioning,
		Domain,
		port,
		txtStrings,
		a.getInterfaces(),
		a.serverOptions()...,
	)
	if err != nil {
		return fmt.Errorf("failed to register provisioning service: %w", err)
	}

	a.provisioningServer = server
	return nil
}

// StopProvisioning stops the provisioning advertisement.
func (a *MDNSAdvertiser) StopProvisioning() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.provisioningServer != nil {
		a.provisioningServer.Shutdown()
		a.provisioningServer = nil
	}
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deviceServer != nil {
		a.deviceServer.Shutdown()
		a.deviceServer = nil
	}
	if a.provisioningServer != nil {
		a.provisioningServer.Shutdown()
		a.provisioningServer = nil
	}
}
