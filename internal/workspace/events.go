package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type SchemaVersion string

const (
	EventSchemaVersionV1 SchemaVersion = "1"
	EventSchemaVersionV0 SchemaVersion = "0"
)

type EventType string

const (
	EventTypeThoughtAdded     EventType = "thought_added"
	EventTypeThoughtUpdated   EventType = "thought_updated"
	EventTypeThoughtStreaming EventType = "thought_streaming"
	EventTypeRunPhase         EventType = "run_phase"
	EventTypeRosterUpdated    EventType = "roster_updated"
	EventTypeUsageSnapshot    EventType = "usage_snapshot"
)

// EventEnvelope is the unit carried on the push channel. RunID correlates an
// event with the run it belongs to; viewers drop envelopes whose RunID does
// not match their active run.
type EventEnvelope struct {
	SchemaVersion SchemaVersion   `json:"schema_version"`
	Type          EventType       `json:"type"`
	RunID         string          `json:"run_id,omitempty"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type ThoughtPayload struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	Phase         string    `json:"phase"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	DisplayName   string    `json:"display_name,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
}

type StreamingPayload struct {
	ParticipantID string    `json:"participant_id"`
	Content       string    `json:"content"`
	At            time.Time `json:"at,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
}

type PhasePayload struct {
	Phase string `json:"phase"`
}

func NewEventEnvelope(typ EventType, source string, runID string, payload any) (EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal payload: %w", err)
	}
	return EventEnvelope{
		SchemaVersion: EventSchemaVersionV1,
		Type:          typ,
		RunID:         runID,
		Source:        strings.TrimSpace(source),
		Timestamp:     time.Now().UTC(),
		Payload:       raw,
	}, nil
}

// ParseEventEnvelope decodes an envelope from the wire. Older daemons emit a
// flatter shape with "correlation_id" and an RFC3339 "ts" string; those are
// folded into the current envelope with schema version 0.
func ParseEventEnvelope(raw []byte) (EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Type != "" && env.RunID != "" {
		if strings.TrimSpace(string(env.SchemaVersion)) == "" {
			env.SchemaVersion = EventSchemaVersionV0
		}
		return env, nil
	}

	var legacy struct {
		Type        EventType       `json:"type"`
		RunID       string          `json:"run_id"`
		Correlation string          `json:"correlation_id"`
		Source      string          `json:"source"`
		Schema      SchemaVersion   `json:"schema_version"`
		Timestamp   time.Time       `json:"timestamp"`
		TS          string          `json:"ts"`
		Payload     json.RawMessage `json:"payload"`
		Data        json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return EventEnvelope{}, err
	}
	if legacy.Type == "" {
		return EventEnvelope{}, fmt.Errorf("missing event type")
	}
	payload := legacy.Payload
	if len(payload) == 0 {
		payload = legacy.Data
	}
	runID := legacy.RunID
	if runID == "" {
		runID = legacy.Correlation
	}
	parsed := EventEnvelope{
		SchemaVersion: legacy.Schema,
		Type:          legacy.Type,
		RunID:         runID,
		Source:        legacy.Source,
		Timestamp:     legacy.Timestamp,
		Payload:       payload,
	}
	if parsed.SchemaVersion == "" {
		parsed.SchemaVersion = EventSchemaVersionV0
	}
	if parsed.Timestamp.IsZero() && strings.TrimSpace(legacy.TS) != "" {
		if ts, err := time.Parse(time.RFC3339, legacy.TS); err == nil {
			parsed.Timestamp = ts
		}
	}
	return parsed, nil
}
