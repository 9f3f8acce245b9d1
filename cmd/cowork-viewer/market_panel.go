package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/registry"
)

type searchResultsMsg struct {
	query   string
	entries []contracts.RegistryEntry
}

type installDoneMsg struct {
	name string
	err  error
}

// marketPanel is the plugin/pack marketplace view: a search box debounced
// against the registry, a result list, and enter-to-install. Results land
// via send because the debouncer fires outside the update loop.
type marketPanel struct {
	client   *registry.Client
	search   *registry.Debouncer
	send     func(tea.Msg)
	query    string
	results  []contracts.RegistryEntry
	selected int
}

func newMarketPanel(client *registry.Client, search *registry.Debouncer, send func(tea.Msg)) marketPanel {
	if send == nil {
		send = func(tea.Msg) {}
	}
	return marketPanel{client: client, search: search, send: send}
}

func (p marketPanel) triggerSearch() {
	client := p.client
	send := p.send
	query := p.query
	p.search.Trigger(func() {
		send(searchResultsMsg{query: query, entries: client.Search(context.Background(), query)})
	})
}

func (p marketPanel) Update(msg tea.Msg) (marketPanel, tea.Cmd) {
	switch typed := msg.(type) {
	case searchResultsMsg:
		if typed.query != p.query {
			return p, nil
		}
		p.results = typed.entries
		p.selected = 0
		return p, nil
	case tea.KeyMsg:
		switch typed.Type {
		case tea.KeyRunes:
			p.query += string(typed.Runes)
			p.triggerSearch()
		case tea.KeySpace:
			p.query += " "
			p.triggerSearch()
		case tea.KeyBackspace:
			if p.query != "" {
				p.query = p.query[:len(p.query)-1]
				p.triggerSearch()
			}
		case tea.KeyUp:
			if p.selected > 0 {
				p.selected--
			}
		case tea.KeyDown:
			if p.selected < len(p.results)-1 {
				p.selected++
			}
		case tea.KeyEnter:
			if p.selected >= 0 && p.selected < len(p.results) {
				return p, installCmd(p.client, p.results[p.selected].Name)
			}
		}
	}
	return p, nil
}

func installCmd(client *registry.Client, name string) tea.Cmd {
	return func() tea.Msg {
		return installDoneMsg{name: name, err: client.Install(context.Background(), name)}
	}
}

func (p marketPanel) View() string {
	var out strings.Builder
	fmt.Fprintf(&out, "Marketplace  search: %s_\n", p.query)
	if len(p.results) == 0 {
		out.WriteString("  no results\n")
		return out.String()
	}
	for i, entry := range p.results {
		marker := "  "
		if i == p.selected {
			marker = "> "
		}
		installed := ""
		if entry.Installed {
			installed = " (installed)"
		}
		fmt.Fprintf(&out, "%s%s %s [%s]%s\n", marker, entry.Name, entry.Version, entry.Kind, installed)
	}
	out.WriteString("  enter installs the selected entry\n")
	return out.String()
}
