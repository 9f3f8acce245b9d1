package insights

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CoWork-OS/cowork/internal/contracts"
)

// DefaultPollInterval matches the fixed cadence the surrounding
// active-context panels refresh on.
const DefaultPollInterval = 30 * time.Second

// Poller refreshes the usage snapshot on a fixed interval. Fetch failures
// are treated as "no data yet": the previous snapshot stays visible and no
// retry happens outside the regular cadence.
type Poller struct {
	bridge   contracts.Bridge
	interval time.Duration

	mu       sync.RWMutex
	snapshot contracts.UsageSnapshot
	haveData bool
}

func NewPoller(bridge contracts.Bridge, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{bridge: bridge, interval: interval}
}

// Run polls until ctx is cancelled. It fetches once immediately so the panel
// is not empty for the first interval.
func (p *Poller) Run(ctx context.Context) {
	if p == nil || p.bridge == nil {
		return
	}
	p.refresh(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	snapshot, err := p.bridge.Usage(ctx)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.snapshot = snapshot
	p.haveData = true
	p.mu.Unlock()
}

// Snapshot returns the latest usage data and whether any fetch has
// succeeded yet.
func (p *Poller) Snapshot() (contracts.UsageSnapshot, bool) {
	if p == nil {
		return contracts.UsageSnapshot{}, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.haveData
}

// Row is one participant's usage line in the insights panel.
type Row struct {
	ParticipantID string
	Thoughts      int
	Tokens        int64
	CostUSD       float64
}

// Rows flattens a snapshot into display rows sorted by descending token
// usage, ties broken by participant id for a stable render.
func Rows(snapshot contracts.UsageSnapshot) []Row {
	rows := make([]Row, 0, len(snapshot.Participants))
	for id, usage := range snapshot.Participants {
		rows = append(rows, Row{
			ParticipantID: id,
			Thoughts:      usage.Thoughts,
			Tokens:        usage.InputTokens + usage.OutputTokens,
			CostUSD:       usage.CostUSD,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Tokens != rows[j].Tokens {
			return rows[i].Tokens > rows[j].Tokens
		}
		return rows[i].ParticipantID < rows[j].ParticipantID
	})
	return rows
}
