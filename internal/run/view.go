package run

import (
	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/logging"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

// ViewModel aggregates one run's thought stream, phase, and roster into a
// renderable state. Each view instance owns its state exclusively; nothing
// here is shared across runs.
type ViewModel struct {
	normalizer *Normalizer
	feed       *Feed
	phase      *PhaseTracker
	roster     *Roster
}

func NewViewModel(runID string, initial Phase, members []ParticipantInfo, logger *logging.StructuredLogger) *ViewModel {
	return &ViewModel{
		normalizer: NewNormalizer(runID, logger),
		feed:       NewFeed(),
		phase:      NewPhaseTracker(initial),
		roster:     NewRoster(members),
	}
}

func (vm *ViewModel) RunID() string {
	return vm.normalizer.RunID()
}

// SetRoster replaces the roster once the fetch resolves. The leader
// designation carries over if one was already observed from the stream.
func (vm *ViewModel) SetRoster(members []ParticipantInfo) {
	leaderID := vm.roster.LeaderID()
	vm.roster = NewRoster(members)
	if leaderID != "" && vm.roster.LeaderID() == "" {
		vm.roster.leaderID = leaderID
	}
}

// Seed loads already-finalized history records fetched through the bridge.
func (vm *ViewModel) Seed(records []contracts.ThoughtRecord) {
	for _, record := range records {
		vm.Apply(ThoughtAdded{Thought: Thought{
			ID:            record.ID,
			ParticipantID: record.ParticipantID,
			Phase:         Phase(record.Phase),
			Content:       record.Content,
			CreatedAt:     record.CreatedAt,
			DisplayName:   record.DisplayName,
			Icon:          record.Icon,
			Color:         record.Color,
		}})
	}
}

// ApplyEnvelope normalizes and applies one wire envelope. It reports whether
// visible content changed, which is what drives the follow anchor.
func (vm *ViewModel) ApplyEnvelope(env workspace.EventEnvelope) bool {
	event, ok := vm.normalizer.Normalize(env)
	if !ok {
		return false
	}
	return vm.Apply(event)
}

// Apply mutates state for a single normalized event.
func (vm *ViewModel) Apply(event Event) bool {
	switch typed := event.(type) {
	case ThoughtAdded:
		vm.roster.ObservePhase(typed.Thought.ParticipantID, typed.Thought.Phase)
		vm.feed.Append(typed.Thought)
		return true
	case ThoughtUpdated:
		return vm.feed.Replace(typed.Thought)
	case ThoughtStreaming:
		vm.feed.Stream(typed.Indicator)
		return true
	case PhaseChanged:
		vm.phase.Set(typed.Phase)
		return true
	default:
		return false
	}
}

func (vm *ViewModel) Visible() Visible {
	return vm.feed.Visible()
}

func (vm *ViewModel) Phase() *PhaseTracker {
	return vm.phase
}

// Resolve maps a thought or indicator's participant id to display metadata,
// folding in whatever inline metadata the event itself carried.
func (vm *ViewModel) Resolve(id string, inline ParticipantInfo) ParticipantInfo {
	return vm.roster.Resolve(id, inline)
}

func (vm *ViewModel) Roster() *Roster {
	return vm.roster
}

func (vm *ViewModel) Feed() *Feed {
	return vm.feed
}

// RosterFromMembers converts bridge roster records into participant info.
func RosterFromMembers(members []contracts.RosterMember) []ParticipantInfo {
	out := make([]ParticipantInfo, 0, len(members))
	for _, member := range members {
		out = append(out, ParticipantInfo{
			ID:            member.ID,
			DisplayName:   member.DisplayName,
			Icon:          member.Icon,
			Color:         member.Color,
			LeaderOrJudge: member.LeaderOrJudge,
		})
	}
	return out
}
