package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/workspace-backend/internal/pkg/logger"
	"github.com/yungbote/workspace-backend/internal/realtime"
)

type EventsHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewEventsHandler(log *logger.Logger, hub *realtime.Hub) *EventsHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &EventsHandler{log: log.With("handler", "EventsHandler"), hub: hub}
}

// Stream serves change events as SSE. ?collection= may repeat; none means all.
func (h *EventsHandler) Stream(c *gin.Context) {
	collections := c.QueryArray("collection")
	if len(collections) == 0 {
		collections = []string{realtime.AllCollections}
	}
	client := h.hub.NewClient()
	h.hub.Subscribe(client, collections...)
	h.log.Info("change stream open", "client_id", client.ID, "collections", collections)
	defer func() {
		h.hub.Close(client)
		h.log.Info("change stream closed", "client_id", client.ID)
	}()
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
