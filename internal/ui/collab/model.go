package collab

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/run"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

// followThresholdLines is the terminal analogue of the view-model's follow
// threshold: within this many lines of the bottom, new content keeps the
// transcript pinned.
const followThresholdLines = 3

// EnvelopeMsg delivers one bus envelope to the panel.
type EnvelopeMsg workspace.EventEnvelope

// RosterMsg delivers the resolved roster fetch.
type RosterMsg []contracts.RosterMember

// HistoryMsg delivers the finalized history fetch.
type HistoryMsg []contracts.ThoughtRecord

// Model is the collaborative run panel: transcript viewport, phase progress
// bar, and per-participant streaming indicators.
type Model struct {
	vm       *run.ViewModel
	spin     spinner.Model
	viewport viewport.Model
	anchor   *run.FollowAnchor
	width    int
	height   int
	ready    bool
	markdown bool
}

func NewModel(vm *run.ViewModel) Model {
	return Model{
		vm:       vm,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		anchor:   run.NewFollowAnchorWithThreshold(followThresholdLines),
		markdown: true,
	}
}

// NewPlainModel disables markdown rendering; used by the headless replay
// tool where ANSI output is unwanted.
func NewPlainModel(vm *run.ViewModel) Model {
	model := NewModel(vm)
	model.markdown = false
	return model
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		transcriptHeight := typed.Height - m.chromeHeight()
		if transcriptHeight < 1 {
			transcriptHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(typed.Width, transcriptHeight)
			m.ready = true
		} else {
			m.viewport.Width = typed.Width
			m.viewport.Height = transcriptHeight
		}
		m.refreshTranscript(false)
		return m, nil

	case EnvelopeMsg:
		changed := m.vm.ApplyEnvelope(workspace.EventEnvelope(typed))
		if changed {
			m.refreshTranscript(true)
		}
		return m, nil

	case RosterMsg:
		m.vm.SetRoster(run.RosterFromMembers(typed))
		m.refreshTranscript(false)
		return m, nil

	case HistoryMsg:
		m.vm.Seed(typed)
		m.refreshTranscript(true)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		m.observeScroll()
	}
	return m, tea.Batch(cmds...)
}

// ViewModel exposes the panel's state for the surrounding shell.
func (m Model) ViewModel() *run.ViewModel {
	return m.vm
}

func (m *Model) observeScroll() {
	m.anchor.Observe(run.ScrollMetrics{
		ContentHeight: m.viewport.TotalLineCount(),
		Offset:        m.viewport.YOffset,
		ViewHeight:    m.viewport.Height,
	})
}

// refreshTranscript re-renders the visible list into the viewport. When
// content changed and the anchor is engaged, the viewport jumps to the
// bottom; a reader who scrolled up is left alone.
func (m *Model) refreshTranscript(contentChanged bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if contentChanged && m.anchor.ShouldFollow() {
		m.viewport.GotoBottom()
	}
	m.observeScroll()
}

func (m Model) renderTranscript() string {
	visible := m.vm.Visible()
	var blocks []string

	for _, entry := range visible.Entries {
		blocks = append(blocks, m.renderThought(entry))
	}
	if len(visible.Pending) > 0 {
		var pending []string
		for _, indicator := range visible.Pending {
			pending = append(pending, m.renderIndicator(indicator))
		}
		blocks = append(blocks, strings.Join(pending, "\n"))
	}
	if len(blocks) == 0 {
		return hintStyle.Render("waiting for the first thought...")
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderThought(entry run.Entry) string {
	thought := entry.Thought
	info := m.vm.Resolve(thought.ParticipantID, run.ParticipantInfo{
		DisplayName: thought.DisplayName,
		Icon:        thought.Icon,
		Color:       thought.Color,
	})

	header := participantStyle(info.Color).Render(fmt.Sprintf("%s %s", info.Icon, info.DisplayName))
	if info.LeaderOrJudge {
		header += " " + leaderBadgeStyle.Render("⚖")
	}
	if !thought.CreatedAt.IsZero() {
		header += " " + timestampStyle.Render(thought.CreatedAt.Format("15:04:05"))
	}

	content := thought.Content
	if m.markdown {
		content = renderMarkdown(content, m.width)
	}
	block := header + "\n" + content

	if entry.Streaming != nil {
		block += "\n" + streamingStyle.Render(m.spin.View()+" "+entry.Streaming.Content)
	}
	return block
}

func (m Model) renderIndicator(indicator run.StreamingIndicator) string {
	info := m.vm.Resolve(indicator.ParticipantID, run.ParticipantInfo{
		DisplayName: indicator.DisplayName,
		Icon:        indicator.Icon,
		Color:       indicator.Color,
	})
	header := participantStyle(info.Color).Render(fmt.Sprintf("%s %s", info.Icon, info.DisplayName))
	return header + " " + streamingStyle.Render(m.spin.View()+" "+indicator.Content)
}

// PhaseBar renders the run progression as a fixed row of steps.
func (m Model) PhaseBar() string {
	states := m.vm.Phase().Steps()
	phases := run.Phases()
	parts := make([]string, 0, len(phases))
	for i, phase := range phases {
		switch states[i] {
		case run.StepCompleted:
			parts = append(parts, stepDoneStyle.Render("✓ "+string(phase)))
		case run.StepActive:
			parts = append(parts, stepActiveStyle.Render(m.spin.View()+" "+string(phase)))
		default:
			parts = append(parts, stepPendingStyle.Render("○ "+string(phase)))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) chromeHeight() int {
	// header + phase bar + footer hint
	return 3
}

func (m Model) View() string {
	header := headerStyle.Render("Collaborative run " + m.vm.RunID())
	var transcript string
	if m.ready {
		transcript = m.viewport.View()
	} else {
		transcript = m.renderTranscript()
	}
	footer := hintStyle.Render("↑/↓ scroll · q quit")
	return strings.Join([]string{header, m.PhaseBar(), transcript, footer}, "\n")
}
