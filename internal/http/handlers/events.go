package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/sse"
)

// EventHandler streams catalog change events to the dashboard over SSE so
// book status flips show up without polling.
type EventHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewEventHandler(log *logger.Logger, hub *sse.Hub) *EventHandler {
	return &EventHandler{
		log: log.With("handler", "EventHandler"),
		hub: hub,
	}
}

// GET /api/events
func (h *EventHandler) Stream(c *gin.Context) {
	client := h.hub.Subscribe(sse.ChannelCatalog)
	defer h.hub.Unsubscribe(sse.ChannelCatalog, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client.Outbound:
			if !ok {
				return false
			}
			payload, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.Warn("could not encode SSE payload", "event", string(msg.Event), "error", err)
				return true
			}
			_, _ = io.WriteString(w, sse.FormatEvent(msg, payload))
			return true
		case <-heartbeat.C:
			_, _ = io.WriteString(w, ": keepalive\n\n")
			return true
		case <-client.Done():
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}
