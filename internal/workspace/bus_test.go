package workspace

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBusDeliversToSubject(t *testing.T) {
	bus := NewMemoryBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	ctx := context.Background()
	ch, unsubscribe, err := bus.Subscribe(ctx, "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsubscribe()

	other, stopOther, err := bus.Subscribe(ctx, "cowork.run.phase")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer stopOther()

	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if err := bus.Publish(ctx, "cowork.run.thought", env); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.RunID != "run-1" {
			t.Fatalf("expected run-1, got %q", got.RunID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected delivery on subscribed subject")
	}

	select {
	case env := <-other:
		t.Fatalf("unexpected delivery on other subject: %#v", env)
	default:
	}
}

func TestMemoryBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	ctx := context.Background()
	ch, unsubscribe, err := bus.Subscribe(ctx, "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	unsubscribe()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}

	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if err := bus.Publish(ctx, "cowork.run.thought", env); err != nil {
		t.Fatalf("publish after unsubscribe should still succeed: %v", err)
	}
}

func TestMemoryBusDropsWhenConsumerIsFull(t *testing.T) {
	bus := NewMemoryBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	ctx := context.Background()
	_, unsubscribe, err := bus.Subscribe(ctx, "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsubscribe()

	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = bus.Publish(ctx, "cowork.run.thought", env)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publisher must never block on a slow consumer")
	}
}

func TestMemoryBusPublishSurvivesConcurrentUnsubscribe(t *testing.T) {
	bus := NewMemoryBus()
	t.Cleanup(func() {
		_ = bus.Close()
	})

	ctx := context.Background()
	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = bus.Publish(ctx, "cowork.run.thought", env)
		}
	}()

	for i := 0; i < 500; i++ {
		_, unsubscribe, err := bus.Subscribe(ctx, "cowork.run.thought")
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
		unsubscribe()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("publisher did not finish under subscribe churn")
	}
}

func TestMemoryBusCloseIsIdempotentAndRejectsPublish(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, _, err := bus.Subscribe(ctx, "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}

	if _, ok := <-ch; ok {
		t.Fatalf("expected subscriber channel closed on bus close")
	}

	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if err := bus.Publish(ctx, "cowork.run.thought", env); err == nil {
		t.Fatalf("expected publish on closed bus to fail")
	}
	if _, _, err := bus.Subscribe(ctx, "cowork.run.thought"); err == nil {
		t.Fatalf("expected subscribe on closed bus to fail")
	}
}
