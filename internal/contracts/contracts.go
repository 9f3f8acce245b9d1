package contracts

import (
	"context"
	"time"
)

// ThoughtRecord is the wire shape of a finalized thought as returned by the
// workspace daemon's run-history endpoint.
type ThoughtRecord struct {
	RunID         string    `json:"run_id"`
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	Phase         string    `json:"phase"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	DisplayName   string    `json:"display_name,omitempty"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
}

// RosterMember describes one run participant as known to the daemon. Origin
// records how the participant joined the run ("dispatch", "synthesize",
// "team", "adhoc").
type RosterMember struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Icon          string `json:"icon,omitempty"`
	Color         string `json:"color,omitempty"`
	LeaderOrJudge bool   `json:"leader_or_judge,omitempty"`
	Origin        string `json:"origin,omitempty"`
}

type Provider struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models,omitempty"`
}

// RegistryEntry is a plugin or pack listed by the marketplace registry.
type RegistryEntry struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Installed   bool   `json:"installed,omitempty"`
}

type ConnectionTestResult struct {
	OK      bool          `json:"ok"`
	Detail  string        `json:"detail,omitempty"`
	Latency time.Duration `json:"latency,omitempty"`
}

type PairingCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UsageSnapshot is the daemon's rollup of model usage for the workspace,
// refreshed by the insights panel on a fixed interval.
type UsageSnapshot struct {
	TakenAt      time.Time                   `json:"taken_at"`
	Participants map[string]ParticipantUsage `json:"participants,omitempty"`
	TotalTokens  int64                       `json:"total_tokens"`
	TotalCostUSD float64                     `json:"total_cost_usd"`
}

type ParticipantUsage struct {
	Thoughts     int     `json:"thoughts"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Bridge is the request/response side of the workspace daemon boundary. The
// viewer never reaches the daemon any other way; every consumer receives a
// Bridge explicitly so tests can substitute a fake.
type Bridge interface {
	RunHistory(ctx context.Context, runID string) ([]ThoughtRecord, error)
	Roster(ctx context.Context, runID string) ([]RosterMember, error)
	Providers(ctx context.Context) ([]Provider, error)

	LoadSettings(ctx context.Context, section string) ([]byte, error)
	SaveSettings(ctx context.Context, section string, payload []byte) error

	SearchRegistry(ctx context.Context, query string) ([]RegistryEntry, error)
	InstallRegistryEntry(ctx context.Context, name string) error
	ScaffoldRegistryEntry(ctx context.Context, name string, dir string) error

	TestConnection(ctx context.Context, channel string) (ConnectionTestResult, error)
	GeneratePairingCode(ctx context.Context, channel string) (PairingCode, error)
	RevokeAccess(ctx context.Context, channel string) error

	Usage(ctx context.Context) (UsageSnapshot, error)
}
