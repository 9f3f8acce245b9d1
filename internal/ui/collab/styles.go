package collab

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	stepActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F")).Bold(true)
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6F7D"))

	leaderBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F"))
	streamingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6F7D")).Italic(true)
	timestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6F7D"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6F7D"))
)

func participantStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}
