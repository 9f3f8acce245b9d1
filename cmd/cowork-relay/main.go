package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/websocket"

	"github.com/CoWork-OS/cowork/internal/logging"
	"github.com/CoWork-OS/cowork/internal/version"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

// cowork-relay bridges the workspace event bus onto websockets so the
// embedded web browser panel can watch a run without a bus client.

const defaultBusBackend = "nats"

type runConfig struct {
	listenAddr      string
	authToken       string
	busBackend      string
	busAddress      string
	busPrefix       string
	shutdownTimeout time.Duration
}

var newWorkspaceBus = func(backend string, address string) (workspace.Bus, error) {
	switch strings.TrimSpace(backend) {
	case "nats":
		return workspace.NewNATSBus(address)
	case "redis":
		return workspace.NewRedisBus(address)
	default:
		return nil, fmt.Errorf("unsupported bus backend %q", backend)
	}
}

func main() {
	os.Exit(RunMain(os.Args[1:], nil))
}

func RunMain(args []string, run func(context.Context, runConfig) error) int {
	if version.IsVersionRequest(args) {
		version.Print(os.Stdout, "cowork-relay")
		return 0
	}

	fs := flag.NewFlagSet("cowork-relay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	listen := fs.String("listen", ":8791", "HTTP listen address")
	authToken := fs.String("auth-token", "", "Bearer token required for /ws requests (empty disables auth)")
	busBackend := fs.String("bus", "", "Event bus backend (nats, redis)")
	busAddress := fs.String("bus-address", "", "Event bus address")
	busPrefix := fs.String("bus-prefix", "cowork", "Event subject prefix")
	shutdownTimeout := fs.Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	backend := strings.TrimSpace(*busBackend)
	if backend == "" {
		backend = strings.TrimSpace(os.Getenv("COWORK_BUS_BACKEND"))
	}
	if backend == "" {
		backend = defaultBusBackend
	}
	address := strings.TrimSpace(*busAddress)
	if address == "" {
		address = strings.TrimSpace(os.Getenv("COWORK_BUS_ADDRESS"))
	}
	if address == "" {
		fmt.Fprintln(os.Stderr, "--bus-address is required")
		return 1
	}
	if *shutdownTimeout <= 0 {
		fmt.Fprintln(os.Stderr, "--shutdown-timeout must be greater than 0")
		return 1
	}

	if run == nil {
		run = defaultRun
	}
	cfg := runConfig{
		listenAddr:      strings.TrimSpace(*listen),
		authToken:       strings.TrimSpace(*authToken),
		busBackend:      backend,
		busAddress:      address,
		busPrefix:       strings.TrimSpace(*busPrefix),
		shutdownTimeout: *shutdownTimeout,
	}
	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func defaultRun(ctx context.Context, cfg runConfig) error {
	bus, err := newWorkspaceBus(cfg.busBackend, cfg.busAddress)
	if err != nil {
		return err
	}
	defer func() {
		_ = bus.Close()
	}()

	logger := logging.NewStructuredLogger(os.Stderr, "info", logging.Fields{Component: "cowork-relay"})
	relay := newRelayState(cfg.authToken, logger)
	defer relay.hub.shutdown()

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	subjects := workspace.DefaultEventSubjects(cfg.busPrefix)
	for _, subject := range []string{subjects.RunThoughts, subjects.RunPhase} {
		ch, unsubscribe, err := bus.Subscribe(shutdownCtx, subject)
		if err != nil {
			return err
		}
		defer unsubscribe()
		go relay.pump(shutdownCtx, ch)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", relay.handleHealth)
	mux.Handle("/ws", websocket.Handler(relay.handleWS))

	server := &http.Server{Addr: cfg.listenAddr, Handler: mux}
	go func() {
		<-shutdownCtx.Done()
		serverCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(serverCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

type relayState struct {
	hub       *envelopeBroadcaster
	authToken string
	logger    *logging.StructuredLogger
}

func newRelayState(authToken string, logger *logging.StructuredLogger) *relayState {
	return &relayState{hub: newEnvelopeBroadcaster(), authToken: authToken, logger: logger}
}

func (s *relayState) pump(ctx context.Context, ch <-chan workspace.EventEnvelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-ch:
			if !ok {
				return
			}
			s.hub.broadcast(env)
		}
	}
}

func (s *relayState) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

func (s *relayState) hasAuth(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	if strings.TrimSpace(r.URL.Query().Get("token")) == s.authToken {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Authorization")), "Bearer "+s.authToken)
}

// handleWS streams envelopes to one websocket client, optionally filtered
// by a ?run= query parameter.
func (s *relayState) handleWS(conn *websocket.Conn) {
	defer conn.Close()
	request := conn.Request()
	if !s.hasAuth(request) {
		s.logger.Debug("rejected websocket client", map[string]interface{}{"remote": request.RemoteAddr})
		return
	}
	runFilter := strings.TrimSpace(request.URL.Query().Get("run"))

	ch, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	for env := range ch {
		if runFilter != "" && env.RunID != runFilter {
			continue
		}
		raw, err := json.Marshal(env)
		if err != nil {
			continue
		}
		if _, err := conn.Write(raw); err != nil {
			return
		}
	}
}

type envelopeBroadcaster struct {
	mu          sync.Mutex
	subscribers map[chan workspace.EventEnvelope]struct{}
	closed      bool
}

func newEnvelopeBroadcaster() *envelopeBroadcaster {
	return &envelopeBroadcaster{subscribers: make(map[chan workspace.EventEnvelope]struct{})}
}

func (b *envelopeBroadcaster) subscribe() (<-chan workspace.EventEnvelope, func()) {
	ch := make(chan workspace.EventEnvelope, 32)
	b.mu.Lock()
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return ch, func() {}
	}
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

func (b *envelopeBroadcaster) broadcast(env workspace.EventEnvelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- env:
		default:
		}
	}
}

func (b *envelopeBroadcaster) shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}
