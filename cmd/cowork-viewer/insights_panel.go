package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CoWork-OS/cowork/internal/insights"
)

const insightsRedrawInterval = 5 * time.Second

type insightsRedrawMsg struct{}

// insightsPanel renders whatever the background poller last fetched. The
// poller owns the 30s cadence; the panel only re-reads its snapshot on a
// redraw tick so fresh data becomes visible without a keypress.
type insightsPanel struct {
	poller *insights.Poller
}

func newInsightsPanel(poller *insights.Poller) insightsPanel {
	return insightsPanel{poller: poller}
}

func insightsRedrawCmd() tea.Cmd {
	return tea.Tick(insightsRedrawInterval, func(time.Time) tea.Msg {
		return insightsRedrawMsg{}
	})
}

func (p insightsPanel) View() string {
	var out strings.Builder
	out.WriteString("Usage insights\n")
	snapshot, ok := p.poller.Snapshot()
	if !ok {
		out.WriteString("  waiting for the first snapshot\n")
		return out.String()
	}
	fmt.Fprintf(&out, "  as of %s  total %d tokens  $%.4f\n",
		snapshot.TakenAt.Format("15:04:05"), snapshot.TotalTokens, snapshot.TotalCostUSD)
	for _, row := range insights.Rows(snapshot) {
		fmt.Fprintf(&out, "  %-16s %4d thoughts  %8d tokens  $%.4f\n",
			row.ParticipantID, row.Thoughts, row.Tokens, row.CostUSD)
	}
	return out.String()
}
