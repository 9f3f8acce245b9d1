package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/CoWork-OS/cowork/internal/contracts"
)

type fakeBridge struct {
	contracts.Bridge
	sections map[string][]byte
	loadErr  error
	saveErr  error
	saved    map[string][]byte
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{sections: map[string][]byte{}, saved: map[string][]byte{}}
}

func (f *fakeBridge) LoadSettings(_ context.Context, section string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.sections[section], nil
}

func (f *fakeBridge) SaveSettings(_ context.Context, section string, payload []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[section] = payload
	return nil
}

func TestLoadDecodesBridgePayload(t *testing.T) {
	bridge := newFakeBridge()
	bridge.sections[SectionTray] = []byte(`{"minimize_to_tray":true,"show_run_badge":true}`)
	store := NewStore(bridge, t.TempDir())

	var tray TraySettings
	degraded, err := store.Load(context.Background(), SectionTray, &tray)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if degraded {
		t.Fatalf("expected non-degraded load")
	}
	if !tray.MinimizeToTray || !tray.ShowRunBadge || tray.StartMinimized {
		t.Fatalf("unexpected settings: %+v", tray)
	}
}

func TestLoadFallsBackToCacheWhenBridgeFails(t *testing.T) {
	dir := t.TempDir()
	bridge := newFakeBridge()
	store := NewStore(bridge, dir)

	if err := store.Save(context.Background(), SectionWebAccess, WebAccessSettings{Enabled: true, AllowedDomains: []string{"docs.example.com"}}); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	bridge.loadErr = fmt.Errorf("daemon offline")
	var web WebAccessSettings
	degraded, err := store.Load(context.Background(), SectionWebAccess, &web)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !degraded {
		t.Fatalf("expected degraded load from cache")
	}
	if !web.Enabled || len(web.AllowedDomains) != 1 {
		t.Fatalf("expected cached value, got %+v", web)
	}
}

func TestLoadDegradesToZeroValueWithoutCache(t *testing.T) {
	bridge := newFakeBridge()
	bridge.loadErr = fmt.Errorf("daemon offline")
	store := NewStore(bridge, t.TempDir())

	var policy AdminPolicySettings
	degraded, err := store.Load(context.Background(), SectionAdminPolicy, &policy)
	if err != nil {
		t.Fatalf("expected silent degradation, got %v", err)
	}
	if !degraded {
		t.Fatalf("expected degraded flag")
	}
	if policy.AllowPluginInstall || policy.MaxConcurrentRuns != 0 {
		t.Fatalf("expected zero-value policy, got %+v", policy)
	}
}

func TestSaveSendsSectionPayload(t *testing.T) {
	bridge := newFakeBridge()
	store := NewStore(bridge, "")

	email := EmailChannelSettings{Enabled: true, IMAPHost: "imap.example.com", IMAPPort: 993, Address: "agent@example.com"}
	if err := store.Save(context.Background(), SectionEmailChannel, email); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	var decoded EmailChannelSettings
	if err := json.Unmarshal(bridge.saved[SectionEmailChannel], &decoded); err != nil {
		t.Fatalf("decode saved payload: %v", err)
	}
	if decoded.IMAPHost != "imap.example.com" || decoded.IMAPPort != 993 {
		t.Fatalf("unexpected saved payload: %+v", decoded)
	}
}

func TestSaveFailureIsWrapped(t *testing.T) {
	bridge := newFakeBridge()
	bridge.saveErr = fmt.Errorf("forbidden")
	store := NewStore(bridge, "")

	err := store.Save(context.Background(), SectionXChannel, XChannelSettings{Enabled: true})
	if err == nil {
		t.Fatalf("expected save error to surface")
	}
}
