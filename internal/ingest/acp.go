package ingest

import (
	"fmt"
	"strings"
	"time"

	acp "github.com/ironpark/acp-go"

	"github.com/CoWork-OS/cowork/internal/run"
)

// ACPStream turns one agent's ACP session updates into run events. Message
// chunks accumulate until a newline, at which point the completed lines
// finalize as a thought; whatever trails the last newline stays in the
// buffer and is forwarded as the participant's streaming preview.
type ACPStream struct {
	participantID string
	phase         run.Phase
	buffer        strings.Builder
	seq           int
	now           func() time.Time
}

func NewACPStream(participantID string, phase run.Phase, now func() time.Time) *ACPStream {
	if now == nil {
		now = time.Now
	}
	if phase == "" {
		phase = run.PhaseThink
	}
	return &ACPStream{participantID: participantID, phase: phase, now: now}
}

// ProcessUpdate returns the run events produced by one session update.
// Tool calls, plans, command and mode updates carry nothing the thought
// stream renders and yield no events.
func (s *ACPStream) ProcessUpdate(update *acp.SessionUpdate) []run.Event {
	if s == nil || update == nil {
		return nil
	}

	if message := update.GetAgentmessagechunk(); message != nil {
		return s.processChunk(&message.Content)
	}
	if thought := update.GetAgentthoughtchunk(); thought != nil {
		return s.processChunk(&thought.Content)
	}
	return nil
}

func (s *ACPStream) processChunk(content *acp.ContentBlock) []run.Event {
	if content == nil || !content.IsText() {
		return nil
	}
	text := content.GetText().Text
	if text == "" {
		return nil
	}

	s.buffer.WriteString(text)
	accumulated := s.buffer.String()

	var events []run.Event
	if lastNewline := strings.LastIndex(accumulated, "\n"); lastNewline >= 0 {
		finalized := strings.TrimRight(accumulated[:lastNewline+1], "\n")
		remaining := accumulated[lastNewline+1:]
		s.buffer.Reset()
		s.buffer.WriteString(remaining)
		if finalized != "" {
			events = append(events, run.ThoughtAdded{Thought: run.Thought{
				ID:            s.nextID(),
				ParticipantID: s.participantID,
				Phase:         s.phase,
				Content:       finalized,
				CreatedAt:     s.now().UTC(),
			}})
		}
	}

	if partial := s.buffer.String(); partial != "" {
		events = append(events, run.ThoughtStreaming{Indicator: run.StreamingIndicator{
			ParticipantID: s.participantID,
			Content:       partial,
			UpdatedAt:     s.now().UTC(),
		}})
	}
	return events
}

// Flush finalizes whatever is still buffered when the agent's turn ends.
func (s *ACPStream) Flush() []run.Event {
	if s == nil {
		return nil
	}
	remaining := s.buffer.String()
	s.buffer.Reset()
	if remaining == "" {
		return nil
	}
	return []run.Event{run.ThoughtAdded{Thought: run.Thought{
		ID:            s.nextID(),
		ParticipantID: s.participantID,
		Phase:         s.phase,
		Content:       remaining,
		CreatedAt:     s.now().UTC(),
	}}}
}

func (s *ACPStream) nextID() string {
	s.seq++
	return fmt.Sprintf("%s-%d", s.participantID, s.seq)
}
