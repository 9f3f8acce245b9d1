package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CoWork-OS/cowork/internal/settings"
)

type settingsLoadedMsg struct {
	webAccess settings.WebAccessSettings
	tray      settings.TraySettings
	degraded  bool
}

type settingsSavedMsg struct {
	section string
	err     error
}

// settingsPanel renders the web-access and tray sections and lets the user
// toggle them in place. Saves go through the store; failures surface as a
// transient notice in the app shell, never as a fatal error.
type settingsPanel struct {
	store     *settings.Store
	webAccess settings.WebAccessSettings
	tray      settings.TraySettings
	degraded  bool
	loaded    bool
}

func newSettingsPanel(store *settings.Store) settingsPanel {
	return settingsPanel{store: store}
}

func (p settingsPanel) loadCmd() tea.Cmd {
	store := p.store
	return func() tea.Msg {
		var web settings.WebAccessSettings
		var tray settings.TraySettings
		webDegraded, _ := store.Load(context.Background(), settings.SectionWebAccess, &web)
		trayDegraded, _ := store.Load(context.Background(), settings.SectionTray, &tray)
		return settingsLoadedMsg{webAccess: web, tray: tray, degraded: webDegraded || trayDegraded}
	}
}

func (p settingsPanel) Update(msg tea.Msg) (settingsPanel, tea.Cmd) {
	switch typed := msg.(type) {
	case settingsLoadedMsg:
		p.webAccess = typed.webAccess
		p.tray = typed.tray
		p.degraded = typed.degraded
		p.loaded = true
		return p, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "w":
			p.webAccess.Enabled = !p.webAccess.Enabled
			return p, saveSectionCmd(p.store, settings.SectionWebAccess, p.webAccess)
		case "m":
			p.tray.MinimizeToTray = !p.tray.MinimizeToTray
			return p, saveSectionCmd(p.store, settings.SectionTray, p.tray)
		}
	}
	return p, nil
}

func saveSectionCmd(store *settings.Store, section string, value any) tea.Cmd {
	return func() tea.Msg {
		return settingsSavedMsg{section: section, err: store.Save(context.Background(), section, value)}
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (p settingsPanel) View() string {
	var out strings.Builder
	out.WriteString("Settings\n")
	if !p.loaded {
		out.WriteString("  loading...\n")
		return out.String()
	}
	if p.degraded {
		out.WriteString("  (offline: showing cached values)\n")
	}
	fmt.Fprintf(&out, "  %s web access enabled        (w toggles)\n", checkbox(p.webAccess.Enabled))
	fmt.Fprintf(&out, "  %s minimize to tray          (m toggles)\n", checkbox(p.tray.MinimizeToTray))
	fmt.Fprintf(&out, "  %s block downloads\n", checkbox(p.webAccess.BlockDownloads))
	fmt.Fprintf(&out, "  %s show run badge\n", checkbox(p.tray.ShowRunBadge))
	return out.String()
}
