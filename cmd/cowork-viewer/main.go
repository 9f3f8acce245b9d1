package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/CoWork-OS/cowork/internal/bridge"
	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/insights"
	"github.com/CoWork-OS/cowork/internal/logging"
	"github.com/CoWork-OS/cowork/internal/registry"
	"github.com/CoWork-OS/cowork/internal/run"
	"github.com/CoWork-OS/cowork/internal/settings"
	"github.com/CoWork-OS/cowork/internal/ui/collab"
	"github.com/CoWork-OS/cowork/internal/ui/filehub"
	"github.com/CoWork-OS/cowork/internal/version"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "cowork")
}

type viewerConfig struct {
	daemonURL  string
	authToken  string
	busBackend string
	busAddress string
	busPrefix  string
	runID      string
	logLevel   string
	hubDir     string
	cacheDir   string
}

var newWorkspaceBus = func(backend string, address string) (workspace.Bus, error) {
	switch strings.TrimSpace(backend) {
	case "nats":
		return workspace.NewNATSBus(address)
	case "redis":
		return workspace.NewRedisBus(address)
	case "memory":
		return workspace.NewMemoryBus(), nil
	default:
		return nil, fmt.Errorf("unsupported bus backend %q", backend)
	}
}

var isTerminal = func(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func main() {
	os.Exit(RunMain(os.Args[1:], os.Stdout, os.Stderr))
}

func RunMain(args []string, out io.Writer, errOut io.Writer) int {
	if version.IsVersionRequest(args) {
		version.Print(out, "cowork-viewer")
		return 0
	}

	fs := flag.NewFlagSet("cowork-viewer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfg := viewerConfig{}
	fs.StringVar(&cfg.daemonURL, "daemon", "http://127.0.0.1:7777", "Workspace daemon base URL")
	fs.StringVar(&cfg.authToken, "token", "", "Daemon auth token")
	fs.StringVar(&cfg.busBackend, "bus", "nats", "Event bus backend (nats, redis, memory)")
	fs.StringVar(&cfg.busAddress, "bus-address", "", "Event bus address")
	fs.StringVar(&cfg.busPrefix, "bus-prefix", "cowork", "Event subject prefix")
	fs.StringVar(&cfg.runID, "run", "", "Run id to display")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "Minimum log level")
	fs.StringVar(&cfg.hubDir, "hub-dir", "", "Workspace file hub root")
	fs.StringVar(&cfg.cacheDir, "cache-dir", defaultCacheDir(), "Settings cache directory")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if cfg.runID == "" {
		fmt.Fprintln(errOut, "--run is required")
		return 1
	}
	if !isTerminal(out) {
		fmt.Fprintln(errOut, "cowork-viewer needs a terminal; use cowork-feed for captures")
		return 1
	}

	logger := logging.NewStructuredLogger(errOut, cfg.logLevel, logging.Fields{
		Component: "cowork-viewer",
		RunID:     cfg.runID,
	})

	daemon := bridge.NewHTTPBridge(cfg.daemonURL, cfg.authToken)
	bus, err := newWorkspaceBus(cfg.busBackend, cfg.busAddress)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer bus.Close()

	ctx, cancelSession := context.WithCancel(context.Background())
	defer cancelSession()

	store := settings.NewStore(daemon, cfg.cacheDir)
	market := registry.NewClient(daemon, logger)
	poller := insights.NewPoller(daemon, 0)
	go poller.Run(ctx)
	hub, err := filehub.NewBrowser(cfg.hubDir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	var program *tea.Program
	send := func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}

	vm := run.NewViewModel(cfg.runID, run.PhaseDispatch, nil, logger)
	app := newAppModel(
		collab.NewModel(vm),
		newSettingsPanel(store),
		newMarketPanel(market, registry.NewDebouncer(0), send),
		newInsightsPanel(poller),
		hub,
	)
	program = tea.NewProgram(app, tea.WithOutput(out), tea.WithAltScreen())

	session := newRunSession(bus, workspace.DefaultEventSubjects(cfg.busPrefix))
	defer session.Stop()
	if err := session.Switch(ctx, cfg.runID, func(env workspace.EventEnvelope) {
		program.Send(collab.EnvelopeMsg(env))
	}); err != nil {
		_ = logger.Log("error", map[string]interface{}{"message": "bus subscribe failed", "error": err.Error()})
		fmt.Fprintln(errOut, err)
		return 1
	}

	go fetchRoster(ctx, daemon, cfg.runID, program)
	go fetchHistory(ctx, daemon, cfg.runID, program)

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

// fetchRoster and fetchHistory are fire-and-forget: a rejected fetch is
// treated as "no data yet" and never retried.
func fetchRoster(ctx context.Context, daemon contracts.Bridge, runID string, program *tea.Program) {
	members, err := daemon.Roster(ctx, runID)
	if err != nil {
		return
	}
	program.Send(collab.RosterMsg(members))
}

func fetchHistory(ctx context.Context, daemon contracts.Bridge, runID string, program *tea.Program) {
	records, err := daemon.RunHistory(ctx, runID)
	if err != nil {
		return
	}
	program.Send(collab.HistoryMsg(records))
}
