package main

import (
	"context"
	"sync"

	"github.com/CoWork-OS/cowork/internal/workspace"
)

// runSession owns the bus subscriptions for the currently displayed run.
// Switching runs tears the old subscriptions down before the new ones start,
// so an event from a previous run can never be applied to a newer view.
type runSession struct {
	bus      workspace.Bus
	subjects workspace.EventSubjects

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newRunSession(bus workspace.Bus, subjects workspace.EventSubjects) *runSession {
	return &runSession{bus: bus, subjects: subjects}
}

// Switch subscribes to the thought and phase streams for runID and forwards
// matching envelopes to send. Any previous subscription is stopped first.
func (s *runSession) Switch(parent context.Context, runID string, send func(workspace.EventEnvelope)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	ctx, cancel := context.WithCancel(parent)

	thoughts, unsubThoughts, err := s.bus.Subscribe(ctx, s.subjects.RunThoughts)
	if err != nil {
		cancel()
		return err
	}
	phases, unsubPhases, err := s.bus.Subscribe(ctx, s.subjects.RunPhase)
	if err != nil {
		unsubThoughts()
		cancel()
		return err
	}

	s.cancel = func() {
		unsubThoughts()
		unsubPhases()
		cancel()
	}

	forward := func(ch <-chan workspace.EventEnvelope) {
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-ch:
				if !ok {
					return
				}
				if env.RunID != runID {
					continue
				}
				send(env)
			}
		}
	}
	go forward(thoughts)
	go forward(phases)
	return nil
}

// Stop tears down the active subscription, if any.
func (s *runSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
