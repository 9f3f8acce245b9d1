package run

import "time"

// Thought is a finalized message attributed to one participant. Immutable
// once finalized; it only changes through in-place replacement when an
// updated event arrives with the same id.
type Thought struct {
	ID            string
	ParticipantID string
	Phase         Phase
	Content       string
	CreatedAt     time.Time
	Streaming     bool
	DisplayName   string
	Icon          string
	Color         string
}

// StreamingIndicator is the transient in-flight preview for a participant
// that has not yet finalized its current thought. Overwritten on every
// streaming update, removed the instant a finalized thought for the same
// participant lands.
type StreamingIndicator struct {
	ParticipantID string
	Content       string
	UpdatedAt     time.Time
	DisplayName   string
	Icon          string
	Color         string
}

// ParticipantInfo is the display metadata for one run participant.
type ParticipantInfo struct {
	ID            string
	DisplayName   string
	Icon          string
	Color         string
	LeaderOrJudge bool
}
