package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyageprep/voyage-backend/internal/services"
	"github.com/voyageprep/voyage-backend/internal/sse"
)

type EventsHandler struct {
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream serves GET /events: a long-lived SSE subscription to the caller's
// journey channel.
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	client := h.hub.NewClient(userID)
	h.hub.AddChannel(client, services.UserChannel(userID))
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
