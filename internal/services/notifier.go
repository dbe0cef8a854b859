package services

import (
	"context"

	"github.com/google/uuid"

	redisclient "github.com/ostrauer/briefshelf-backend/internal/clients/redis"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/sse"
)

// CatalogNotifier pushes catalog change events toward connected dashboards.
// Publishing is best effort: a dead bus logs a warning and the originating
// operation still succeeds.
type CatalogNotifier interface {
	BookStatusChanged(ctx context.Context, book *types.Book)
	BookEnriched(ctx context.Context, book *types.Book)
	BookDeleted(ctx context.Context, bookID uuid.UUID)
}

type catalogNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redisclient.EventBus
}

func NewCatalogNotifier(log *logger.Logger, hub *sse.Hub, bus redisclient.EventBus) CatalogNotifier {
	return &catalogNotifier{log: log.With("service", "CatalogNotifier"), hub: hub, bus: bus}
}

// publish routes events through Redis when a bus is wired so every process
// sees them; the forwarder then feeds this process's hub. Without a bus the
// event goes straight to the local hub.
func (n *catalogNotifier) publish(ctx context.Context, event sse.Event, data any) {
	msg := sse.Message{Channel: sse.ChannelCatalog, Event: event, Data: data}
	if n.bus == nil {
		n.hub.Broadcast(msg)
		return
	}
	if err := n.bus.Publish(ctx, msg); err != nil {
		n.log.Warn("publish catalog event failed", "event", string(event), "error", err)
	}
}

func (n *catalogNotifier) BookStatusChanged(ctx context.Context, book *types.Book) {
	n.publish(ctx, sse.EventBookStatusChanged, map[string]any{
		"book_id": book.ID.String(),
		"status":  book.Status,
	})
}

func (n *catalogNotifier) BookEnriched(ctx context.Context, book *types.Book) {
	n.publish(ctx, sse.EventBookEnriched, map[string]any{
		"book_id": book.ID.String(),
		"status":  book.Status,
	})
}

func (n *catalogNotifier) BookDeleted(ctx context.Context, bookID uuid.UUID) {
	n.publish(ctx, sse.EventBookDeleted, map[string]any{
		"book_id": bookID.String(),
	})
}
