// Package interactive provides the interactive command-line console for
// the wifiman command.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/event"
	"github.com/wifiman-project/wifiman-go/pkg/metrics"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
	"github.com/wifiman-project/wifiman-go/pkg/radio/fake"
	"github.com/wifiman-project/wifiman-go/pkg/wifi"
)

// Console handles interactive mode for wifiman.
type Console struct {
	svc    *wifi.Service
	driver *fake.Driver
	rl     *readline.Instance

	// OnLocalSession, when set, is invoked with true when a local
	// access-point provisioning session starts and false when it ends.
	OnLocalSession func(active bool)
}

// New creates a console bound to the simulated driver. Attach must be
// called before Run.
func New(driver *fake.Driver) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "wifi> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{driver: driver, rl: rl}, nil
}

// Attach binds the service and subscribes the console to its events.
func (c *Console) Attach(svc *wifi.Service) {
	c.svc = svc
	svc.Subscribe(c.handleEvent)
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline
// input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "mode", "m":
			c.cmdMode(args)

		case "ap":
			c.cmdAccessPoint(args)

		case "connect", "c":
			c.cmdConnect(args)

		case "connect-saved", "cs":
			c.cmdConnectSaved()

		case "disconnect", "d":
			c.cmdDisconnect()

		case "save":
			c.cmdSave(args)

		case "load":
			c.cmdLoad()

		case "scan":
			c.cmdScan()

		case "status", "s":
			c.cmdStatus()

		case "provision", "p":
			c.cmdProvision(args)

		case "submit":
			c.cmdSubmit(args)

		case "wait":
			c.cmdWait(args)

		case "cancel":
			c.cmdCancel()

		case "peer":
			c.cmdPeer(args)

		case "ack":
			c.cmdAck()

		case "metrics":
			c.cmdMetrics()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Wifiman Commands:
  Radio:
    mode <off|client|ap|both>  - Switch the radio mode
    ap <ssid> [channel]        - Set the access point configuration
    scan                       - Scan for networks
    status                     - Show connectivity status

  Station:
    connect <ssid> [pass]      - Connect and wait for the outcome
    connect-saved              - Connect with the saved credentials
    disconnect                 - Drop the current association
    save <ssid> <pass>         - Persist credentials
    load                       - Show the saved credentials

  Provisioning:
    provision broadcast [secs]  - Start a broadcast pairing session
    provision local [ssid]      - Start a local access-point session
    submit <ssid> <pass>        - Submit credentials to the local session
    wait [secs]                 - Wait for the session to complete
    cancel                      - Cancel the session

  Simulation:
    peer <ssid> <pass>         - Simulate a broadcast pairing peer
    ack                        - Simulate the pairing ack transmission
    metrics                    - Show memory usage

  General:
    help                       - Show this help
    quit                       - Exit`)
}

// handleEvent prints connectivity events above the prompt.
func (c *Console) handleEvent(e event.Event) {
	out := c.rl.Stdout()
	switch ev := e.(type) {
	case event.Connected:
		fmt.Fprintf(out, "[EVENT] Connected, address %s\n", ev.Address)
	case event.Disconnected:
		fmt.Fprintf(out, "[EVENT] Disconnected: %s\n", ev.Reason)
	case event.ConnectionFailed:
		fmt.Fprintf(out, "[EVENT] Connection failed: %v\n", ev.Err)
	case event.ProvisioningCredentials:
		fmt.Fprintf(out, "[EVENT] Provisioning credentials received for %q\n", ev.Credentials.SSID)
	case event.ProvisioningCompleted:
		fmt.Fprintf(out, "[EVENT] Provisioning completed: %q, address %s\n", ev.Credentials.SSID, ev.Address)
	case event.ProvisioningFailed:
		fmt.Fprintf(out, "[EVENT] Provisioning failed: %v\n", ev.Err)
	}
}

func (c *Console) cmdMode(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(c.rl.Stdout(), "Current mode: %s\nUsage: mode <off|client|ap|both>\n", c.svc.Mode())
		return
	}

	var mode radio.Mode
	switch strings.ToLower(args[0]) {
	case "off":
		mode = radio.ModeOff
	case "client", "sta":
		mode = radio.ModeClient
	case "ap":
		mode = radio.ModeAccessPoint
	case "both", "apsta":
		mode = radio.ModeClientAndAccessPoint
	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown mode: %s\n", args[0])
		return
	}

	if err := c.svc.SetMode(mode); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Mode change failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Mode: %s\n", mode)
}

func (c *Console) cmdAccessPoint(args []string) {
	if len(args) < 1 {
		if cfg, ok := c.svc.Config(); ok {
			fmt.Fprintf(c.rl.Stdout(), "Access point: %q channel %d\n", cfg.SSID, cfg.Channel)
		} else {
			fmt.Fprintln(c.rl.Stdout(), "No access point configured")
		}
		fmt.Fprintln(c.rl.Stdout(), "Usage: ap <ssid> [channel]")
		return
	}

	cfg := radio.AccessPointConfig{SSID: args[0]}
	if len(args) > 1 {
		if ch, err := strconv.ParseUint(args[1], 10, 8); err == nil {
			cfg.Channel = uint8(ch)
		}
	}

	if err := c.svc.Configure(cfg); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Configure failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
}

func (c *Console) cmdConnect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: connect <ssid> [passphrase]")
		return
	}

	creds := credentials.Credentials{SSID: args[0]}
	if len(args) > 1 {
		creds.Passphrase = args[1]
	}

	fmt.Fprintf(c.rl.Stdout(), "Connecting to %q...\n", creds.SSID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.svc.ConnectSyncWith(ctx, creds, 15*time.Second); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Connected, address %s\n", c.svc.Status().Address)
}

func (c *Console) cmdConnectSaved() {
	fmt.Fprintln(c.rl.Stdout(), "Connecting with saved credentials...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.svc.ConnectSync(ctx, 15*time.Second); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Connected, address %s\n", c.svc.Status().Address)
}

func (c *Console) cmdDisconnect() {
	if err := c.svc.Disconnect(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
}

func (c *Console) cmdSave(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: save <ssid> <passphrase>")
		return
	}
	if err := c.svc.SaveCredentials(args[0], args[1]); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Save failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
}

func (c *Console) cmdLoad() {
	creds, err := c.svc.LoadCredentials()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Load failed: %v\n", err)
		return
	}
	if creds == nil {
		fmt.Fprintln(c.rl.Stdout(), "No saved credentials")
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Saved network: %q\n", creds.SSID)
}

func (c *Console) cmdScan() {
	networks, err := c.svc.Scan()
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Scan failed: %v\n", err)
		return
	}
	if len(networks) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No networks found")
		return
	}

	fmt.Fprintf(c.rl.Stdout(), "\nNetworks (%d):\n", len(networks))
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	for _, n := range networks {
		marker := " "
		if n.Connected {
			marker = "*"
		}
		fmt.Fprintf(c.rl.Stdout(), "%s %-24s %3d%% (%d dBm)  ch %-2d  %s\n",
			marker, n.SSID, n.Signal, n.RSSI, n.Channel, n.Auth)
	}
	fmt.Fprintln(c.rl.Stdout())
}

func (c *Console) cmdStatus() {
	st := c.svc.Status()
	fmt.Fprintln(c.rl.Stdout(), "\nConnectivity Status")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  Mode:          %s\n", st.Mode)
	fmt.Fprintf(c.rl.Stdout(), "  Phase:         %s\n", st.Phase)
	if st.Connected {
		fmt.Fprintf(c.rl.Stdout(), "  Address:       %s\n", st.Address)
	}
	if st.LastDisconnectReason != radio.ReasonNone {
		fmt.Fprintf(c.rl.Stdout(), "  Last reason:   %s\n", st.LastDisconnectReason)
	}
	if st.LastError != nil {
		fmt.Fprintf(c.rl.Stdout(), "  Last error:    %v\n", st.LastError)
	}
	fmt.Fprintf(c.rl.Stdout(), "  Provisioning:  %v (%s)\n", st.ProvisioningActive, c.svc.ProvisioningState())
	fmt.Fprintln(c.rl.Stdout())
}

func (c *Console) cmdProvision(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: provision <broadcast|local> [arg]")
		return
	}

	switch strings.ToLower(args[0]) {
	case "broadcast", "b":
		opts := wifi.BroadcastOptions{Variant: radio.PairingV2}
		if len(args) > 1 {
			if secs, err := strconv.Atoi(args[1]); err == nil {
				opts.Timeout = time.Duration(secs) * time.Second
			}
		}
		if err := c.svc.StartBroadcastProvisioning(opts); err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Start failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.rl.Stdout(), "Broadcast provisioning started (use 'peer <ssid> <pass>' to simulate)")

	case "local", "l":
		opts := wifi.LocalAPOptions{}
		if len(args) > 1 {
			opts.AccessPoint = radio.AccessPointConfig{SSID: args[1]}
		} else if cfg, ok := c.svc.Config(); ok {
			opts.AccessPoint = cfg
		} else {
			fmt.Fprintln(c.rl.Stdout(), "No access point configured; usage: provision local <ssid>")
			return
		}
		if err := c.svc.StartLocalAPProvisioning(opts); err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Start failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.rl.Stdout(), "Local AP provisioning started (use 'submit <ssid> <pass>')")
		c.notifyLocalSession(true)

	default:
		fmt.Fprintf(c.rl.Stdout(), "Unknown protocol: %s\n", args[0])
	}
}

func (c *Console) cmdSubmit(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: submit <ssid> <passphrase>")
		return
	}
	creds := credentials.Credentials{SSID: args[0], Passphrase: args[1]}
	if err := c.svc.SubmitProvisioningCredentials(creds); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Submit failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Credentials submitted, verifying...")
}

func (c *Console) cmdWait(args []string) {
	timeout := 60 * time.Second
	if len(args) > 0 {
		if secs, err := strconv.Atoi(args[0]); err == nil {
			timeout = time.Duration(secs) * time.Second
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.svc.WaitForProvisioning(ctx, timeout); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Wait ended: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Provisioning completed")
	c.notifyLocalSession(false)
}

func (c *Console) cmdCancel() {
	if err := c.svc.CancelProvisioning(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Cancel failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "OK")
	c.notifyLocalSession(false)
}

func (c *Console) notifyLocalSession(active bool) {
	if c.OnLocalSession != nil {
		c.OnLocalSession(active)
	}
}

// cmdPeer simulates a broadcast pairing peer delivering credentials
// through the driver.
func (c *Console) cmdPeer(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: peer <ssid> <passphrase>")
		return
	}
	c.driver.DeliverPairingCredentials(radio.StationConfig{
		SSID:       args[0],
		Passphrase: args[1],
	})
	fmt.Fprintln(c.rl.Stdout(), "Peer credentials delivered")
}

// cmdAck simulates the driver confirming the pairing acknowledgment was
// transmitted.
func (c *Console) cmdAck() {
	c.driver.DeliverPairingAckSent()
	fmt.Fprintln(c.rl.Stdout(), "Pairing ack delivered")
}

func (c *Console) cmdMetrics() {
	s := metrics.Capture()
	fmt.Fprintln(c.rl.Stdout(), "\nMemory Usage")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  Heap alloc:  %d KiB\n", s.HeapAlloc/1024)
	fmt.Fprintf(c.rl.Stdout(), "  Heap sys:    %d KiB\n", s.HeapSys/1024)
	fmt.Fprintf(c.rl.Stdout(), "  Heap idle:   %d KiB\n", s.HeapIdle/1024)
	fmt.Fprintf(c.rl.Stdout(), "  GC cycles:   %d\n", s.NumGC)
	fmt.Fprintf(c.rl.Stdout(), "  Goroutines:  %d\n", s.NumGoroutine)
	fmt.Fprintln(c.rl.Stdout())
}
