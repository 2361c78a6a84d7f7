package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/sse"
)

type recordingBus struct {
	published []sse.SSEMessage
	fail      bool
}

func (b *recordingBus) Publish(ctx context.Context, msg sse.SSEMessage) error {
	if b.fail {
		return errors.New("redis unavailable")
	}
	b.published = append(b.published, msg)
	return nil
}

func (b *recordingBus) StartForwarder(ctx context.Context, onMsg func(m sse.SSEMessage)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func expectNoMessage(t *testing.T, ch <-chan sse.SSEMessage) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected delivery: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func expectOneMessage(t *testing.T, ch <-chan sse.SSEMessage) sse.SSEMessage {
	t.Helper()
	var got sse.SSEMessage
	select {
	case got = <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
	expectNoMessage(t, ch)
	return got
}

func TestEmitWithBusDeliversOnce(t *testing.T) {
	log := newTestLogger(t)
	hub := sse.NewSSEHub(log)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, sse.UserChannel(userID))

	bus := &recordingBus{}
	n := NewNotifier(log, hub, bus)
	msg := sse.SSEMessage{Channel: sse.UserChannel(userID), Event: sse.SSEEventBabyStepCompleted}

	n.Emit(context.Background(), msg)

	if len(bus.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(bus.published))
	}
	// The local hub must stay quiet: delivery on the emitting instance comes
	// back through the forwarder's self-subscription.
	expectNoMessage(t, client.Outbound)

	// Simulate that replay; the subscriber sees the event exactly once.
	hub.Broadcast(bus.published[0])
	got := expectOneMessage(t, client.Outbound)
	if got.Event != sse.SSEEventBabyStepCompleted {
		t.Fatalf("event = %s, want %s", got.Event, sse.SSEEventBabyStepCompleted)
	}
}

func TestEmitWithoutBusBroadcastsLocally(t *testing.T) {
	log := newTestLogger(t)
	hub := sse.NewSSEHub(log)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, sse.UserChannel(userID))

	n := NewNotifier(log, hub, nil)
	n.Emit(context.Background(), sse.SSEMessage{Channel: sse.UserChannel(userID), Event: sse.SSEEventWellnessEntrySubmitted})

	got := expectOneMessage(t, client.Outbound)
	if got.Event != sse.SSEEventWellnessEntrySubmitted {
		t.Fatalf("event = %s, want %s", got.Event, sse.SSEEventWellnessEntrySubmitted)
	}
}

func TestEmitFallsBackLocallyWhenPublishFails(t *testing.T) {
	log := newTestLogger(t)
	hub := sse.NewSSEHub(log)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, sse.UserChannel(userID))

	n := NewNotifier(log, hub, &recordingBus{fail: true})
	n.Emit(context.Background(), sse.SSEMessage{Channel: sse.UserChannel(userID), Event: sse.SSEEventSpaceMessageCreated})

	got := expectOneMessage(t, client.Outbound)
	if got.Event != sse.SSEEventSpaceMessageCreated {
		t.Fatalf("event = %s, want %s", got.Event, sse.SSEEventSpaceMessageCreated)
	}
}
