package workspace

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

type fakeNATSConnection struct {
	mu           sync.RWMutex
	handler      nats.MsgHandler
	unsubscribed int32
	closeCalls   int32
}

func (c *fakeNATSConnection) Subscribe(_ string, handler nats.MsgHandler) (natsSubscription, error) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
	return &fakeNATSSubscription{connection: c}, nil
}

func (c *fakeNATSConnection) Publish(_ string, _ []byte) error {
	return nil
}

func (c *fakeNATSConnection) Close() error {
	atomic.AddInt32(&c.closeCalls, 1)
	return nil
}

func (c *fakeNATSConnection) emit(raw []byte) {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()
	if handler == nil {
		return
	}
	handler(&nats.Msg{Data: raw})
}

type fakeNATSSubscription struct {
	connection *fakeNATSConnection
}

func (s *fakeNATSSubscription) Unsubscribe() error {
	atomic.AddInt32(&s.connection.unsubscribed, 1)
	return nil
}

func TestNATSBusSubscribeDeliversParsedEnvelopes(t *testing.T) {
	conn := &fakeNATSConnection{}
	bus := &NATSBus{conn: conn}
	out, unsubscribe, err := bus.Subscribe(context.Background(), "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe should return channel: %v", err)
	}
	defer unsubscribe()

	env, err := NewEventEnvelope(EventTypeThoughtAdded, "daemon", "run-1", ThoughtPayload{ID: "t-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	conn.emit(raw)

	select {
	case got := <-out:
		if got.RunID != "run-1" || got.Type != EventTypeThoughtAdded {
			t.Fatalf("unexpected envelope %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected parsed envelope on output channel")
	}

	conn.emit([]byte("not json"))
	select {
	case env := <-out:
		t.Fatalf("malformed message should be dropped, got %#v", env)
	default:
	}
}

func TestNATSBusSubscribeDropsSchemaInvalidEnvelopes(t *testing.T) {
	conn := &fakeNATSConnection{}
	bus := &NATSBus{conn: conn}
	out, unsubscribe, err := bus.Subscribe(context.Background(), "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe should return channel: %v", err)
	}
	defer unsubscribe()

	conn.emit([]byte(`{"type":"thought_added","source":"daemon"}`))
	conn.emit([]byte(`{"type":"mystery","run_id":"run-1","source":"daemon"}`))
	select {
	case env := <-out:
		t.Fatalf("schema-invalid envelope should be dropped at the boundary, got %#v", env)
	default:
	}

	conn.emit([]byte(`{"type":"thought_added","correlation_id":"run-legacy","data":{"id":"t-1"}}`))
	select {
	case got := <-out:
		if got.RunID != "run-legacy" {
			t.Fatalf("expected legacy envelope to pass validation, got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected legacy envelope on output channel")
	}
}

func TestNATSBusSubscribeClosesOutputOnUnsubscribe(t *testing.T) {
	conn := &fakeNATSConnection{}
	bus := &NATSBus{conn: conn}
	out, unsubscribe, err := bus.Subscribe(context.Background(), "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe should return channel: %v", err)
	}

	unsubscribe()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected output channel to close after unsubscribe")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected output channel to close after unsubscribe")
	}

	env, err := NewEventEnvelope(EventTypeRunPhase, "daemon", "run-1", PhasePayload{Phase: "think"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			t.Fatalf("unexpected panic when callback runs after unsubscribe: %v", rec)
		}
	}()
	conn.emit(raw)

	if atomic.LoadInt32(&conn.unsubscribed) != 1 {
		t.Fatalf("expected unsubscribe to be called exactly once, got %d", atomic.LoadInt32(&conn.unsubscribed))
	}
}

func TestNATSBusSubscribeClosesOutputOnContextCancel(t *testing.T) {
	conn := &fakeNATSConnection{}
	bus := &NATSBus{conn: conn}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, _, err := bus.Subscribe(ctx, "cowork.run.thought")
	if err != nil {
		t.Fatalf("subscribe should return channel: %v", err)
	}

	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected output channel to close after context cancel")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected output channel to close after context cancel")
	}

	if atomic.LoadInt32(&conn.unsubscribed) != 1 {
		t.Fatalf("expected unsubscribe on context cancel, got %d", atomic.LoadInt32(&conn.unsubscribed))
	}
}
