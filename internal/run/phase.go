package run

// Phase is the coarse stage of a collaborative run. The order below drives
// the progress bar; the tracker itself never enforces legal transitions,
// the latest received value simply wins.
type Phase string

const (
	PhaseDispatch   Phase = "dispatch"
	PhaseThink      Phase = "think"
	PhaseSynthesize Phase = "synthesize"
	PhaseComplete   Phase = "complete"
)

var phaseOrder = []Phase{PhaseDispatch, PhaseThink, PhaseSynthesize, PhaseComplete}

// Phases returns the ordered phase steps for rendering.
func Phases() []Phase {
	steps := make([]Phase, len(phaseOrder))
	copy(steps, phaseOrder)
	return steps
}

// PhaseIndex returns the position of a phase in the ordered progression, or
// -1 for anything unrecognized. -1 is safe as a comparison bound: every step
// compares greater, so all steps render as pending.
func PhaseIndex(phase Phase) int {
	for i, candidate := range phaseOrder {
		if candidate == phase {
			return i
		}
	}
	return -1
}

type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepCompleted
)

type PhaseTracker struct {
	current Phase
}

// NewPhaseTracker starts at the phase supplied at mount, defaulting to
// dispatch.
func NewPhaseTracker(initial Phase) *PhaseTracker {
	if initial == "" {
		initial = PhaseDispatch
	}
	return &PhaseTracker{current: initial}
}

// Set records the latest phase value. Out-of-order phases are accepted as-is.
func (t *PhaseTracker) Set(phase Phase) {
	if t == nil {
		return
	}
	t.current = phase
}

func (t *PhaseTracker) Current() Phase {
	if t == nil {
		return PhaseDispatch
	}
	return t.current
}

// Steps reports the render state of every phase step relative to the current
// phase.
func (t *PhaseTracker) Steps() []StepState {
	currentIndex := PhaseIndex(t.Current())
	states := make([]StepState, len(phaseOrder))
	for i := range phaseOrder {
		switch {
		case i < currentIndex:
			states[i] = StepCompleted
		case i == currentIndex:
			states[i] = StepActive
		default:
			states[i] = StepPending
		}
	}
	return states
}

// Done reports whether the run reached its terminal phase.
func (t *PhaseTracker) Done() bool {
	return t.Current() == PhaseComplete
}
