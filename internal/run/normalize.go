package run

import (
	"encoding/json"
	"time"

	"github.com/CoWork-OS/cowork/internal/logging"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

// Event is the closed set of run events a view model reacts to. Everything
// coming off the wire is normalized into one of these variants at the
// boundary; payloads that do not parse never reach a view model.
type Event interface {
	runEvent()
}

type ThoughtAdded struct {
	Thought Thought
}

type ThoughtUpdated struct {
	Thought Thought
}

type ThoughtStreaming struct {
	Indicator StreamingIndicator
}

type PhaseChanged struct {
	Phase Phase
}

func (ThoughtAdded) runEvent()     {}
func (ThoughtUpdated) runEvent()   {}
func (ThoughtStreaming) runEvent() {}
func (PhaseChanged) runEvent()     {}

// Normalizer converts wire envelopes into run events for a single run.
// Envelopes for other runs are discarded; unknown event types and malformed
// payloads are dropped with a debug trace rather than an error, since the
// daemon's event vocabulary evolves independently of the viewer.
type Normalizer struct {
	runID  string
	logger *logging.StructuredLogger
}

func NewNormalizer(runID string, logger *logging.StructuredLogger) *Normalizer {
	return &Normalizer{runID: runID, logger: logger}
}

func (n *Normalizer) RunID() string {
	if n == nil {
		return ""
	}
	return n.runID
}

// Normalize returns the run event for an envelope, or ok=false when the
// envelope is filtered out.
func (n *Normalizer) Normalize(env workspace.EventEnvelope) (Event, bool) {
	if n == nil {
		return nil, false
	}
	if env.RunID != n.runID {
		return nil, false
	}

	switch env.Type {
	case workspace.EventTypeThoughtAdded:
		thought, ok := n.decodeThought(env)
		if !ok {
			return nil, false
		}
		return ThoughtAdded{Thought: thought}, true
	case workspace.EventTypeThoughtUpdated:
		thought, ok := n.decodeThought(env)
		if !ok {
			return nil, false
		}
		return ThoughtUpdated{Thought: thought}, true
	case workspace.EventTypeThoughtStreaming:
		var payload workspace.StreamingPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.ParticipantID == "" {
			n.trace("drop malformed streaming payload", env)
			return nil, false
		}
		at := payload.At
		if at.IsZero() {
			at = env.Timestamp
		}
		return ThoughtStreaming{Indicator: StreamingIndicator{
			ParticipantID: payload.ParticipantID,
			Content:       payload.Content,
			UpdatedAt:     at,
			DisplayName:   payload.DisplayName,
			Icon:          payload.Icon,
			Color:         payload.Color,
		}}, true
	case workspace.EventTypeRunPhase:
		var payload workspace.PhasePayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.Phase == "" {
			n.trace("drop malformed phase payload", env)
			return nil, false
		}
		return PhaseChanged{Phase: Phase(payload.Phase)}, true
	default:
		n.trace("drop unknown event type", env)
		return nil, false
	}
}

func (n *Normalizer) decodeThought(env workspace.EventEnvelope) (Thought, bool) {
	var payload workspace.ThoughtPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.ID == "" || payload.ParticipantID == "" {
		n.trace("drop malformed thought payload", env)
		return Thought{}, false
	}
	createdAt := payload.CreatedAt
	if createdAt.IsZero() {
		createdAt = env.Timestamp
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Thought{
		ID:            payload.ID,
		ParticipantID: payload.ParticipantID,
		Phase:         Phase(payload.Phase),
		Content:       payload.Content,
		CreatedAt:     createdAt,
		DisplayName:   payload.DisplayName,
		Icon:          payload.Icon,
		Color:         payload.Color,
	}, true
}

func (n *Normalizer) trace(message string, env workspace.EventEnvelope) {
	n.logger.Debug(message, map[string]interface{}{
		"event_type": string(env.Type),
		"run_id":     env.RunID,
	})
}
