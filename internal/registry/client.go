package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/logging"
)

// Client fronts the plugin/pack marketplace. Search failures degrade to an
// empty result list; install and scaffold failures surface to the caller so
// the panel can show a notice.
type Client struct {
	bridge contracts.Bridge
	logger *logging.StructuredLogger
}

func NewClient(bridge contracts.Bridge, logger *logging.StructuredLogger) *Client {
	return &Client{bridge: bridge, logger: logger}
}

func (c *Client) Search(ctx context.Context, query string) []contracts.RegistryEntry {
	if c == nil || c.bridge == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	entries, err := c.bridge.SearchRegistry(ctx, query)
	if err != nil {
		c.logger.Debug("registry search degraded to empty", map[string]interface{}{"query": query, "error": err.Error()})
		return nil
	}
	return entries
}

func (c *Client) Install(ctx context.Context, name string) error {
	if c == nil || c.bridge == nil {
		return fmt.Errorf("registry client is not connected")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("registry entry name is required")
	}
	if err := c.bridge.InstallRegistryEntry(ctx, name); err != nil {
		return fmt.Errorf("install %s: %w", name, err)
	}
	return nil
}

func (c *Client) Scaffold(ctx context.Context, name string, dir string) error {
	if c == nil || c.bridge == nil {
		return fmt.Errorf("registry client is not connected")
	}
	if err := c.bridge.ScaffoldRegistryEntry(ctx, name, dir); err != nil {
		return fmt.Errorf("scaffold %s: %w", name, err)
	}
	return nil
}

// Debouncer coalesces rapid search-box keystrokes into a single trailing
// call after the quiet period.
type Debouncer struct {
	quiet time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = 250 * time.Millisecond
	}
	return &Debouncer{quiet: quiet}
}

// Trigger schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
