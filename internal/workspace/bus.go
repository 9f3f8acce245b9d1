package workspace

import (
	"context"
	"fmt"
	"sync"
)

// Bus is the push side of the daemon boundary. Subscribe returns a receive
// channel plus an unsubscribe func; callers must unsubscribe when the active
// run changes so stale-run events can never reach a newer view.
type Bus interface {
	Publish(ctx context.Context, subject string, event EventEnvelope) error
	Subscribe(ctx context.Context, subject string) (<-chan EventEnvelope, func(), error)
	Close() error
}

// MemoryBus is an in-process Bus used by tests and the replay tools. Sends
// to slow consumers are dropped rather than blocking the publisher.
type MemoryBus struct {
	mu        sync.RWMutex
	consumers map[string][]chan EventEnvelope
	closed    bool
	closeOnce sync.Once
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{consumers: make(map[string][]chan EventEnvelope)}
}

func (b *MemoryBus) Publish(_ context.Context, subject string, event EventEnvelope) error {
	// Sends happen under the read lock: unsubscribe and Close take the
	// write lock before closing a channel, so no send can race a close.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("bus closed")
	}
	for _, ch := range b.consumers[subject] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, subject string) (<-chan EventEnvelope, func(), error) {
	if b == nil {
		return nil, nil, fmt.Errorf("bus is nil")
	}
	ch := make(chan EventEnvelope, 32)
	b.mu.Lock()
	if b.closed {
		close(ch)
		b.mu.Unlock()
		return nil, nil, fmt.Errorf("bus closed")
	}
	b.consumers[subject] = append(b.consumers[subject], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, candidate := range b.consumers[subject] {
			if candidate == ch {
				b.consumers[subject] = append(b.consumers[subject][:i], b.consumers[subject][i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe, nil
}

func (b *MemoryBus) Close() error {
	if b == nil {
		return nil
	}
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		for subject, targets := range b.consumers {
			for _, ch := range targets {
				close(ch)
			}
			delete(b.consumers, subject)
		}
		b.mu.Unlock()
	})
	return nil
}
