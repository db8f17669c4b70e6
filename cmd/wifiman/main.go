// Command wifiman runs a simulated wireless connectivity manager.
//
// The command wires the connection manager and provisioner to a simulated
// radio driver and exposes an interactive console for exercising mode
// switches, connects, scans and both provisioning protocols.
//
// Usage:
//
//	wifiman [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-store string      Credentials store path (default "wifiman-credentials.json")
//	-event-log string  CBOR event capture path (empty disables)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-mdns              Advertise the device over mDNS when connected
//
// Examples:
//
//	# Start with the bundled simulation defaults
//	wifiman
//
//	# Start with a config file and event capture
//	wifiman -config wifiman.yaml -event-log events.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wifiman-project/wifiman-go/cmd/wifiman/interactive"
	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/discovery"
	"github.com/wifiman-project/wifiman-go/pkg/event"
	"github.com/wifiman-project/wifiman-go/pkg/log"
	"github.com/wifiman-project/wifiman-go/pkg/metrics"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
	"github.com/wifiman-project/wifiman-go/pkg/radio/fake"
	"github.com/wifiman-project/wifiman-go/pkg/wifi"
)

// fileConfig is the YAML configuration file layout.
type fileConfig struct {
	Device struct {
		ID       string `yaml:"id"`
		Model    string `yaml:"model"`
		Firmware string `yaml:"firmware"`
	} `yaml:"device"`

	AccessPoint struct {
		SSID       string `yaml:"ssid"`
		Channel    uint8  `yaml:"channel"`
		MaxClients uint8  `yaml:"max_clients"`
		Hidden     bool   `yaml:"hidden"`
	} `yaml:"access_point"`

	StorePath string `yaml:"store_path"`
	EventLog  string `yaml:"event_log"`

	MDNS struct {
		Enabled   bool   `yaml:"enabled"`
		Interface string `yaml:"interface"`
		Port      uint16 `yaml:"port"`
	} `yaml:"mdns"`

	Simulation struct {
		LatencyMS int `yaml:"latency_ms"`

		Networks []struct {
			SSID       string `yaml:"ssid"`
			Passphrase string `yaml:"passphrase"`
			Address    string `yaml:"address"`
			RSSI       int    `yaml:"rssi"`
			Channel    uint8  `yaml:"channel"`
		} `yaml:"networks"`
	} `yaml:"simulation"`
}

var (
	configPath string
	storePath  string
	eventLog   string
	logLevel   string
	mdnsFlag   bool
	memReport  bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&storePath, "store", "wifiman-credentials.json", "Credentials store path")
	flag.StringVar(&eventLog, "event-log", "", "CBOR event capture path (empty disables)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&mdnsFlag, "mdns", false, "Advertise the device over mDNS when connected")
	flag.BoolVar(&memReport, "mem-report", false, "Log memory usage periodically")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}
	if eventLog != "" {
		cfg.EventLog = eventLog
	}
	if mdnsFlag {
		cfg.MDNS.Enabled = true
	}

	driver := buildDriver(cfg)

	console, err := interactive.New(driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create console: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(console.Stderr(), &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}))

	eventSink, closeSink, err := buildEventLog(cfg.EventLog, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open event log: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()

	svcCfg := wifi.Config{
		Driver:   driver,
		Store:    credentials.NewFileStore(cfg.StorePath),
		Logger:   logger,
		EventLog: eventSink,
	}
	if cfg.AccessPoint.SSID != "" {
		svcCfg.AccessPoint = &radio.AccessPointConfig{
			SSID:       cfg.AccessPoint.SSID,
			Channel:    cfg.AccessPoint.Channel,
			MaxClients: cfg.AccessPoint.MaxClients,
			Hidden:     cfg.AccessPoint.Hidden,
		}
	}

	svc, err := wifi.New(svcCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create service: %v\n", err)
		os.Exit(1)
	}
	console.Attach(svc)

	if cfg.MDNS.Enabled {
		wireAdvertising(svc, console, cfg, logger)
	}

	if memReport {
		reporter := metrics.NewReporter(logger, time.Minute)
		reporter.Start()
		defer reporter.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl-C outside the console still shuts down cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	console.Run(ctx, cancel)

	if err := svc.SetMode(radio.ModeOff); err != nil {
		logger.Warn("shutdown: radio off failed", "err", err)
	}
}

// loadConfig reads the YAML config and fills defaults for anything unset.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if cfg.Device.ID == "" {
		cfg.Device.ID = fmt.Sprintf("sim-%d", time.Now().Unix()%100000)
	}
	if cfg.Device.Model == "" {
		cfg.Device.Model = "wifiman-sim"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "wifiman-credentials.json"
	}
	if cfg.AccessPoint.SSID == "" {
		cfg.AccessPoint.SSID = "wifiman-setup"
	}
	if cfg.Simulation.LatencyMS <= 0 {
		cfg.Simulation.LatencyMS = 250
	}
	if len(cfg.Simulation.Networks) == 0 {
		cfg.Simulation.Networks = []struct {
			SSID       string `yaml:"ssid"`
			Passphrase string `yaml:"passphrase"`
			Address    string `yaml:"address"`
			RSSI       int    `yaml:"rssi"`
			Channel    uint8  `yaml:"channel"`
		}{
			{SSID: "HomeNet", Passphrase: "correct-horse", Address: "192.168.1.42", RSSI: -48, Channel: 6},
			{SSID: "Neighbor", Passphrase: "hunter22222", Address: "10.0.0.9", RSSI: -78, Channel: 11},
		}
	}
	return cfg, nil
}

// buildDriver creates the simulated radio from the configured network table.
func buildDriver(cfg *fileConfig) *fake.Driver {
	var networks []fake.Network
	for _, n := range cfg.Simulation.Networks {
		addr, err := netip.ParseAddr(n.Address)
		if err != nil {
			addr = netip.MustParseAddr("192.168.4.2")
		}
		auth := radio.AuthWPA2PSK
		if n.Passphrase == "" {
			auth = radio.AuthOpen
		}
		networks = append(networks, fake.Network{
			SSID:       n.SSID,
			Passphrase: n.Passphrase,
			Address:    addr,
			Record: radio.NetworkRecord{
				SSID:    n.SSID,
				RSSI:    n.RSSI,
				Channel: n.Channel,
				Auth:    auth,
			},
		})
	}
	return fake.NewSimulated(networks, time.Duration(cfg.Simulation.LatencyMS)*time.Millisecond)
}

// buildEventLog assembles the structured event sink: CBOR file capture if a
// path is configured, always mirrored to slog at debug level.
func buildEventLog(path string, logger *slog.Logger) (log.Logger, func(), error) {
	slogSink := log.NewSlogAdapter(logger)
	if path == "" {
		return slogSink, func() {}, nil
	}

	fileSink, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := fileSink.Close(); err != nil {
			logger.Warn("closing event log failed", "err", err)
		}
	}
	return log.NewMultiLogger(fileSink, slogSink), closer, nil
}

// wireAdvertising announces the device over mDNS while connected and the
// provisioning endpoint while a local access-point session is open.
func wireAdvertising(svc *wifi.Service, console *interactive.Console, cfg *fileConfig, logger *slog.Logger) {
	advCfg := discovery.DefaultAdvertiserConfig()
	advCfg.Interface = cfg.MDNS.Interface
	adv, err := discovery.NewMDNSAdvertiser(advCfg)
	if err != nil {
		logger.Warn("mDNS advertiser unavailable", "err", err)
		return
	}

	console.OnLocalSession = func(active bool) {
		if !active {
			_ = adv.StopProvisioning()
			return
		}
		info := &discovery.ProvisioningInfo{
			DeviceID: cfg.Device.ID,
			Model:    cfg.Device.Model,
			Protocol: wifi.ProtocolLocalAP.String(),
			Port:     cfg.MDNS.Port,
		}
		if err := adv.AdvertiseProvisioning(info); err != nil {
			logger.Warn("provisioning advertisement failed", "err", err)
		}
	}

	svc.Subscribe(func(e event.Event) {
		switch e.(type) {
		case event.Connected:
			info := &discovery.DeviceInfo{
				DeviceID: cfg.Device.ID,
				Model:    cfg.Device.Model,
				Firmware: cfg.Device.Firmware,
				Port:     cfg.MDNS.Port,
			}
			if creds, err := svc.LoadCredentials(); err == nil && creds != nil {
				info.SSID = creds.SSID
			}
			if err := adv.AdvertiseDevice(info); err != nil {
				logger.Warn("device advertisement failed", "err", err)
			}
		case event.Disconnected:
			_ = adv.StopDevice()
		}
	})
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
