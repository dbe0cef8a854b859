package app

import (
	"github.com/ostrauer/briefshelf-backend/internal/http/handlers"
	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/sse"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Book      *handlers.BookHandler
	Cover     *handlers.CoverHandler
	Lead      *handlers.LeadHandler
	Analytics *handlers.AnalyticsHandler
	Workflow  *handlers.WorkflowHandler
	Hook      *handlers.HookHandler
	Event     *handlers.EventHandler
}

func wireHandlers(log *logger.Logger, repos Repos, clients Clients, svcs Services, gate *middleware.AccessGate, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Auth:      handlers.NewAuthHandler(log, clients.Identity, gate),
		Book:      handlers.NewBookHandler(log, svcs.Catalog, svcs.Enrichment),
		Cover:     handlers.NewCoverHandler(log, svcs.Catalog, svcs.Covers),
		Lead:      handlers.NewLeadHandler(log, repos.DentistLead, repos.AdvisorLead),
		Analytics: handlers.NewAnalyticsHandler(log, svcs.UsageStats, svcs.CampaignStats),
		Workflow:  handlers.NewWorkflowHandler(log, svcs.Enrichment),
		Hook:      handlers.NewHookHandler(log, svcs.Catalog),
		Event:     handlers.NewEventHandler(log, hub),
	}
}
