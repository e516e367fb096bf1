package services

import (
	"context"

	"github.com/google/uuid"

	redisclient "github.com/voyageprep/voyage-backend/internal/clients/redis"
	"github.com/voyageprep/voyage-backend/internal/logger"
	"github.com/voyageprep/voyage-backend/internal/sse"
)

// JourneyNotifier pushes journey events to the user's SSE channel. With a
// redis event bus wired, events reach hubs on every instance; without one the
// local hub is notified directly.
type JourneyNotifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any)
}

type journeyNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redisclient.EventBus
}

func NewJourneyNotifier(baseLog *logger.Logger, hub *sse.Hub, bus redisclient.EventBus) JourneyNotifier {
	return &journeyNotifier{
		log: baseLog.With("service", "JourneyNotifier"),
		hub: hub,
		bus: bus,
	}
}

func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func (n *journeyNotifier) Notify(ctx context.Context, userID uuid.UUID, event sse.Event, data any) {
	msg := sse.EventMessage{
		Channel: UserChannel(userID),
		Event:   event,
		Data:    data,
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Event bus publish failed, broadcasting locally", "event", event, "error", err)
			if n.hub != nil {
				n.hub.Broadcast(msg)
			}
		}
		return
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}
