package run

// Feed is the streaming/finalized merge table for one run: an append-only
// ordered sequence of finalized thoughts plus at most one streaming
// indicator per participant.
type Feed struct {
	thoughts  []Thought
	byID      map[string]int
	streaming map[string]StreamingIndicator
	// first-seen order of participants that are streaming but have no
	// finalized thought yet; drives the pending block.
	pendingOrder []string
}

func NewFeed() *Feed {
	return &Feed{
		byID:      make(map[string]int),
		streaming: make(map[string]StreamingIndicator),
	}
}

// Append adds a finalized thought to the end of the sequence. Any streaming
// indicator for the same participant is superseded, never merged: finalized
// content always wins over a stale in-flight preview.
func (f *Feed) Append(thought Thought) {
	f.thoughts = append(f.thoughts, thought)
	f.byID[thought.ID] = len(f.thoughts) - 1
	delete(f.streaming, thought.ParticipantID)
	f.dropPending(thought.ParticipantID)
}

// Replace swaps the sequence entry whose id matches, keeping its position.
// Updates for ids the feed has never seen are dropped.
func (f *Feed) Replace(thought Thought) bool {
	position, ok := f.byID[thought.ID]
	if !ok {
		return false
	}
	f.thoughts[position] = thought
	return true
}

// Stream upserts the indicator for a participant with the latest partial
// content. The finalized sequence is never touched.
func (f *Feed) Stream(indicator StreamingIndicator) {
	if _, seen := f.streaming[indicator.ParticipantID]; !seen && !f.hasFinalized(indicator.ParticipantID) {
		f.pendingOrder = append(f.pendingOrder, indicator.ParticipantID)
	}
	f.streaming[indicator.ParticipantID] = indicator
}

func (f *Feed) Thoughts() []Thought {
	out := make([]Thought, len(f.thoughts))
	copy(out, f.thoughts)
	return out
}

func (f *Feed) StreamingFor(participantID string) (StreamingIndicator, bool) {
	indicator, ok := f.streaming[participantID]
	return indicator, ok
}

func (f *Feed) Len() int {
	return len(f.thoughts)
}

func (f *Feed) hasFinalized(participantID string) bool {
	for _, thought := range f.thoughts {
		if thought.ParticipantID == participantID {
			return true
		}
	}
	return false
}

func (f *Feed) dropPending(participantID string) {
	for i, id := range f.pendingOrder {
		if id == participantID {
			f.pendingOrder = append(f.pendingOrder[:i], f.pendingOrder[i+1:]...)
			return
		}
	}
}

// Entry is one finalized thought in render order, with the participant's
// live indicator attached when they are still streaming beneath it.
type Entry struct {
	Thought   Thought
	Streaming *StreamingIndicator
}

// Visible is the computed render list: finalized entries in arrival order
// followed by a pending block for participants that are streaming but have
// nothing finalized yet, ordered by first-seen.
type Visible struct {
	Entries []Entry
	Pending []StreamingIndicator
}

// Visible computes the render list. An indicator attaches only to the
// participant's most recent finalized entry, so no participant can appear as
// "currently streaming" twice.
func (f *Feed) Visible() Visible {
	lastByParticipant := make(map[string]int, len(f.thoughts))
	for i, thought := range f.thoughts {
		lastByParticipant[thought.ParticipantID] = i
	}

	visible := Visible{Entries: make([]Entry, 0, len(f.thoughts))}
	for i, thought := range f.thoughts {
		entry := Entry{Thought: thought}
		if indicator, ok := f.streaming[thought.ParticipantID]; ok && lastByParticipant[thought.ParticipantID] == i {
			attached := indicator
			entry.Streaming = &attached
		}
		visible.Entries = append(visible.Entries, entry)
	}

	for _, participantID := range f.pendingOrder {
		indicator, ok := f.streaming[participantID]
		if !ok {
			continue
		}
		if _, finalized := lastByParticipant[participantID]; finalized {
			continue
		}
		visible.Pending = append(visible.Pending, indicator)
	}
	return visible
}
