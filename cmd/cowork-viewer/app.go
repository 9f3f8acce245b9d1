package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CoWork-OS/cowork/internal/ui/collab"
	"github.com/CoWork-OS/cowork/internal/ui/filehub"
	"github.com/CoWork-OS/cowork/internal/ui/notice"
)

type workspaceTab int

const (
	tabRun workspaceTab = iota
	tabSettings
	tabMarket
	tabInsights
	tabFiles
	tabCount
)

var tabLabels = [tabCount]string{"run", "settings", "market", "insights", "files"}

// appModel is the workspace shell: the collaborative run panel plus the
// surrounding settings, marketplace, insights and file hub tabs, with a
// transient notice line shared by all of them.
type appModel struct {
	tab      workspaceTab
	panel    collab.Model
	settings settingsPanel
	market   marketPanel
	insights insightsPanel
	files    *filehub.Browser
	notices  notice.Model
}

func newAppModel(panel collab.Model, settings settingsPanel, market marketPanel, insights insightsPanel, files *filehub.Browser) appModel {
	return appModel{
		panel:    panel,
		settings: settings,
		market:   market,
		insights: insights,
		files:    files,
		notices:  notice.New(0),
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.panel.Init(), m.settings.loadCmd(), insightsRedrawCmd())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if typed.Type == tea.KeyTab {
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		}
		// The marketplace search box owns plain keys while its tab is
		// active; esc returns to the run panel.
		if m.tab == tabMarket {
			if typed.Type == tea.KeyEsc {
				m.tab = tabRun
				return m, nil
			}
			m.market, cmd = m.market.Update(msg)
			return m, cmd
		}
		if typed.String() == "q" {
			return m, tea.Quit
		}
		switch m.tab {
		case tabRun:
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		case tabSettings:
			m.settings, cmd = m.settings.Update(msg)
			return m, cmd
		case tabFiles:
			m.handleFileKey(typed)
			return m, nil
		}
		return m, nil

	case settingsLoadedMsg:
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd

	case settingsSavedMsg:
		if typed.err != nil {
			m.notices, cmd = m.notices.Show(fmt.Sprintf("save failed: %v", typed.err), notice.KindError)
		} else {
			m.notices, cmd = m.notices.Show(fmt.Sprintf("saved %s settings", typed.section), notice.KindInfo)
		}
		return m, cmd

	case searchResultsMsg:
		m.market, cmd = m.market.Update(msg)
		return m, cmd

	case installDoneMsg:
		if typed.err != nil {
			m.notices, cmd = m.notices.Show(fmt.Sprintf("install failed: %v", typed.err), notice.KindError)
		} else {
			m.notices, cmd = m.notices.Show(fmt.Sprintf("installed %s", typed.name), notice.KindInfo)
		}
		return m, cmd

	case insightsRedrawMsg:
		return m, insightsRedrawCmd()
	}

	m.panel, cmd = m.panel.Update(msg)
	cmds = append(cmds, cmd)
	m.notices, cmd = m.notices.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *appModel) handleFileKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyLeft:
		m.files.PrevFolder()
	case tea.KeyRight:
		m.files.NextFolder()
	case tea.KeyUp:
		m.files.PrevFile()
	case tea.KeyDown:
		m.files.NextFile()
	}
}

func (m appModel) tabBar() string {
	var out strings.Builder
	for i, label := range tabLabels {
		if workspaceTab(i) == m.tab {
			fmt.Fprintf(&out, "[%s] ", label)
		} else {
			fmt.Fprintf(&out, " %s  ", label)
		}
	}
	return strings.TrimRight(out.String(), " ")
}

func (m appModel) View() string {
	var body string
	switch m.tab {
	case tabSettings:
		body = m.settings.View()
	case tabMarket:
		body = m.market.View()
	case tabInsights:
		body = m.insights.View()
	case tabFiles:
		body = m.files.View()
	default:
		body = m.panel.View()
	}

	view := body
	if m.tab != tabRun {
		view = m.tabBar() + "\n" + body
	}
	if m.notices.Visible() {
		view += "\n" + m.notices.View()
	}
	return view
}
