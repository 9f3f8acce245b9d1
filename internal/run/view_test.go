package run

import (
	"testing"
	"time"

	"github.com/CoWork-OS/cowork/internal/contracts"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

func publish(t *testing.T, vm *ViewModel, typ workspace.EventType, runID string, payload any) bool {
	t.Helper()
	env, err := workspace.NewEventEnvelope(typ, "test", runID, payload)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	return vm.ApplyEnvelope(env)
}

func TestViewModelEndToEndScenario(t *testing.T) {
	vm := NewViewModel("run-1", PhaseDispatch, []ParticipantInfo{
		{ID: "a", DisplayName: "A"},
		{ID: "b", DisplayName: "B"},
	}, nil)

	publish(t, vm, workspace.EventTypeThoughtStreaming, "run-1", workspace.StreamingPayload{ParticipantID: "a", Content: "..."})
	publish(t, vm, workspace.EventTypeThoughtAdded, "run-1", workspace.ThoughtPayload{ID: "1", ParticipantID: "a", Phase: "think", Content: "done A"})
	publish(t, vm, workspace.EventTypeThoughtStreaming, "run-1", workspace.StreamingPayload{ParticipantID: "b", Content: "..."})
	publish(t, vm, workspace.EventTypeThoughtAdded, "run-1", workspace.ThoughtPayload{ID: "2", ParticipantID: "b", Phase: "think", Content: "done B"})
	publish(t, vm, workspace.EventTypeRunPhase, "run-1", workspace.PhasePayload{Phase: "complete"})

	visible := vm.Visible()
	if len(visible.Entries) != 2 {
		t.Fatalf("expected 2 finalized thoughts, got %d", len(visible.Entries))
	}
	if visible.Entries[0].Thought.ID != "1" || visible.Entries[0].Thought.ParticipantID != "a" {
		t.Fatalf("unexpected first entry: %+v", visible.Entries[0].Thought)
	}
	if visible.Entries[1].Thought.ID != "2" || visible.Entries[1].Thought.ParticipantID != "b" {
		t.Fatalf("unexpected second entry: %+v", visible.Entries[1].Thought)
	}
	for i, entry := range visible.Entries {
		if entry.Streaming != nil {
			t.Fatalf("expected no streaming indicator on entry %d", i)
		}
	}
	if len(visible.Pending) != 0 {
		t.Fatalf("expected no pending indicators, got %d", len(visible.Pending))
	}
	states := vm.Phase().Steps()
	for i := 0; i < 3; i++ {
		if states[i] != StepCompleted {
			t.Fatalf("expected phase step %d completed, got %v", i, states[i])
		}
	}
	if !vm.Phase().Done() {
		t.Fatalf("expected run complete")
	}
}

func TestViewModelIgnoresStaleRunEvents(t *testing.T) {
	vm := NewViewModel("run-2", PhaseDispatch, nil, nil)
	if publish(t, vm, workspace.EventTypeThoughtAdded, "run-1", workspace.ThoughtPayload{ID: "1", ParticipantID: "a"}) {
		t.Fatalf("expected stale-run event to be ignored")
	}
	if vm.Feed().Len() != 0 {
		t.Fatalf("expected empty feed, got %d", vm.Feed().Len())
	}
}

func TestViewModelSeedLoadsHistory(t *testing.T) {
	vm := NewViewModel("run-1", PhaseThink, nil, nil)
	vm.Seed([]contracts.ThoughtRecord{
		{RunID: "run-1", ID: "h-1", ParticipantID: "a", Phase: "dispatch", Content: "kickoff", CreatedAt: time.Unix(10, 0)},
		{RunID: "run-1", ID: "h-2", ParticipantID: "b", Phase: "think", Content: "reply", CreatedAt: time.Unix(20, 0)},
	})
	if vm.Feed().Len() != 2 {
		t.Fatalf("expected seeded history of 2, got %d", vm.Feed().Len())
	}
	// The dispatch-origin participant from history becomes the sticky leader.
	if vm.Roster().LeaderID() != "a" {
		t.Fatalf("expected a designated leader from history, got %q", vm.Roster().LeaderID())
	}
}

func TestViewModelSetRosterKeepsObservedLeader(t *testing.T) {
	vm := NewViewModel("run-1", PhaseDispatch, nil, nil)
	publish(t, vm, workspace.EventTypeThoughtAdded, "run-1", workspace.ThoughtPayload{ID: "1", ParticipantID: "lead", Phase: "dispatch"})
	vm.SetRoster([]ParticipantInfo{{ID: "lead", DisplayName: "Leader"}, {ID: "b", DisplayName: "B"}})
	if vm.Roster().LeaderID() != "lead" {
		t.Fatalf("expected leader designation to survive the roster fetch, got %q", vm.Roster().LeaderID())
	}
}

func TestViewModelAddedSupersedesInFlightStreaming(t *testing.T) {
	vm := NewViewModel("run-1", PhaseDispatch, nil, nil)
	publish(t, vm, workspace.EventTypeThoughtStreaming, "run-1", workspace.StreamingPayload{ParticipantID: "p", Content: "half a sent"})
	publish(t, vm, workspace.EventTypeThoughtAdded, "run-1", workspace.ThoughtPayload{ID: "1", ParticipantID: "p", Content: "half a sentence, finished"})

	if _, ok := vm.Feed().StreamingFor("p"); ok {
		t.Fatalf("expected added event to clear, not merge, the indicator")
	}
	visible := vm.Visible()
	if visible.Entries[0].Thought.Content != "half a sentence, finished" {
		t.Fatalf("expected finalized content, got %q", visible.Entries[0].Thought.Content)
	}
}
