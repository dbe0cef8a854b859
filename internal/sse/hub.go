package sse

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type Event string

const (
	EventBookStatusChanged Event = "BookStatusChanged"
	EventBookEnriched      Event = "BookEnriched"
	EventBookDeleted       Event = "BookDeleted"
)

// ChannelCatalog is the single broadcast channel dashboard clients join.
const ChannelCatalog = "catalog"

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	Outbound chan Message
	done     chan struct{}
}

func (c *Client) Done() <-chan struct{} { return c.done }

// Hub fans enrichment events out to connected dashboard clients. Messages
// arriving for a slow client are dropped rather than blocking the hub.
type Hub struct {
	mu      sync.RWMutex
	log     *logger.Logger
	clients map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:     log.With("component", "SSEHub"),
		clients: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Subscribe(channel string) *Client {
	client := &Client{
		ID:       uuid.New(),
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channel] == nil {
		h.clients[channel] = make(map[*Client]bool)
	}
	h.clients[channel][client] = true
	return client
}

func (h *Hub) Unsubscribe(channel string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[channel]; ok {
		if set[client] {
			delete(set, client)
			close(client.done)
		}
		if len(set) == 0 {
			delete(h.clients, channel)
		}
	}
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			h.log.Warn("dropping SSE message for slow client", "client_id", client.ID.String(), "event", string(msg.Event))
		}
	}
}

func FormatEvent(msg Message, payload []byte) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", msg.Event, payload)
}
