package sse

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestHubRoutesByChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	userA := uuid.New()
	userB := uuid.New()
	clientA := hub.NewSSEClient(userA)
	clientB := hub.NewSSEClient(userB)
	hub.AddChannel(clientA, UserChannel(userA))
	hub.AddChannel(clientB, UserChannel(userB))

	hub.Broadcast(SSEMessage{
		Channel: UserChannel(userA),
		Event:   SSEEventBabyStepCompleted,
		Data:    map[string]any{"stars": 3},
	})

	got := recvMessage(t, clientA.Outbound, time.Second)
	if got.Event != SSEEventBabyStepCompleted {
		t.Fatalf("event: want=%s got=%s", SSEEventBabyStepCompleted, got.Event)
	}

	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("clientB should not receive userA's event, got %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubSpaceFanout(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	spaceID := uuid.New()

	clientA := hub.NewSSEClient(uuid.New())
	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, SpaceChannel(spaceID))
	hub.AddChannel(clientB, SpaceChannel(spaceID))

	hub.Broadcast(SSEMessage{Channel: SpaceChannel(spaceID), Event: SSEEventSpaceMessageCreated})

	for _, c := range []*SSEClient{clientA, clientB} {
		got := recvMessage(t, c.Outbound, time.Second)
		if got.Event != SSEEventSpaceMessageCreated {
			t.Fatalf("event: want=%s got=%s", SSEEventSpaceMessageCreated, got.Event)
		}
	}

	hub.RemoveChannel(clientB, SpaceChannel(spaceID))
	hub.Broadcast(SSEMessage{Channel: SpaceChannel(spaceID), Event: SSEEventSpaceMessageCreated})
	recvMessage(t, clientA.Outbound, time.Second)
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("unsubscribed client received %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubClientRegistry(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())

	if got := hub.GetClient(client.ID); got != client {
		t.Fatalf("GetClient should resolve a connected client")
	}

	hub.CloseClient(client)
	if got := hub.GetClient(client.ID); got != nil {
		t.Fatalf("GetClient should return nil after disconnect")
	}
	if _, ok := <-client.Outbound; ok {
		t.Fatalf("outbound channel should be closed after disconnect")
	}
}
