package notice

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTTL is how long an inline notice stays visible before it dismisses
// itself.
const DefaultTTL = 2500 * time.Millisecond

var (
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

type Kind int

const (
	KindInfo Kind = iota
	KindError
)

type dismissMsg struct {
	generation int
}

// Model is a transient inline notice. Showing a new notice supersedes the
// pending dismissal of the previous one.
type Model struct {
	message    string
	kind       Kind
	ttl        time.Duration
	generation int
}

func New(ttl time.Duration) Model {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Model{ttl: ttl}
}

// Show displays a message and schedules its dismissal.
func (m Model) Show(message string, kind Kind) (Model, tea.Cmd) {
	m.message = message
	m.kind = kind
	m.generation++
	generation := m.generation
	return m, tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return dismissMsg{generation: generation}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if dismiss, ok := msg.(dismissMsg); ok && dismiss.generation == m.generation {
		m.message = ""
	}
	return m, nil
}

func (m Model) Visible() bool {
	return m.message != ""
}

func (m Model) View() string {
	if m.message == "" {
		return ""
	}
	if m.kind == KindError {
		return errorStyle.Render(m.message)
	}
	return infoStyle.Render(m.message)
}
