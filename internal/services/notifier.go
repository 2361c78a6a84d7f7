package services

import (
	"context"

	"github.com/wellnest-app/wellnest-backend/internal/clients/redis"
	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
)

// Notifier delivers an event to SSE subscribers exactly once. Without a redis
// bus it broadcasts on the local hub. With a bus it publishes to redis only:
// the forwarder's self-subscription replays the message into this instance's
// hub, so broadcasting locally as well would hand every subscriber the event
// twice. Emission is best-effort: a delivery failure never fails the write
// that produced the event.
type Notifier interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

type notifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus redis.EventBus
}

func NewNotifier(log *logger.Logger, hub *sse.SSEHub, bus redis.EventBus) Notifier {
	return &notifier{
		log: log.With("service", "Notifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *notifier) Emit(ctx context.Context, msg sse.SSEMessage) {
	if n.bus != nil {
		err := n.bus.Publish(ctx, msg)
		if err == nil {
			return
		}
		// Redis didn't take the message, so nothing will come back through
		// the forwarder; serve this instance's subscribers directly.
		n.log.Warn("Failed to publish event to redis bus; delivering locally", "event", msg.Event, "error", err)
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}
