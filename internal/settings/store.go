package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/CoWork-OS/cowork/internal/contracts"
)

// Store reads and writes settings sections through the bridge, keeping a
// local YAML cache so panels can render something when the daemon is
// unreachable. Load failures degrade to zero values, never errors the
// caller has to special-case.
type Store struct {
	bridge    contracts.Bridge
	cachePath string
	mu        sync.Mutex
}

func NewStore(bridge contracts.Bridge, cachePath string) *Store {
	return &Store{bridge: bridge, cachePath: cachePath}
}

// Load fetches a section into out. On bridge failure it falls back to the
// local cache; if that misses too, out keeps its zero value and Load
// reports degraded=true with no error.
func (s *Store) Load(ctx context.Context, section string, out any) (degraded bool, err error) {
	if s == nil || s.bridge == nil {
		return true, nil
	}
	raw, bridgeErr := s.bridge.LoadSettings(ctx, section)
	if bridgeErr == nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return false, fmt.Errorf("decode %s settings: %w", section, err)
		}
		s.writeCache(section, out)
		return false, nil
	}
	if s.readCache(section, out) {
		return true, nil
	}
	return true, nil
}

// Save writes a section through the bridge and refreshes the cache on
// success. A failed save leaves the cache at the last known-good value.
func (s *Store) Save(ctx context.Context, section string, value any) error {
	if s == nil || s.bridge == nil {
		return fmt.Errorf("settings store is not connected")
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", section, err)
	}
	if err := s.bridge.SaveSettings(ctx, section, payload); err != nil {
		return fmt.Errorf("save %s settings: %w", section, err)
	}
	s.writeCache(section, value)
	return nil
}

func (s *Store) cacheFile(section string) string {
	if s.cachePath == "" {
		return ""
	}
	name := strings.ReplaceAll(section, string(filepath.Separator), "_") + ".yaml"
	return filepath.Join(s.cachePath, name)
}

func (s *Store) writeCache(section string, value any) {
	path := s.cacheFile(section)
	if path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := yaml.Marshal(value)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, raw, 0o600)
}

func (s *Store) readCache(section string, out any) bool {
	path := s.cacheFile(section)
	if path == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return yaml.Unmarshal(raw, out) == nil
}
