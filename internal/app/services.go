package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
	"github.com/ostrauer/briefshelf-backend/internal/sse"
)

type Services struct {
	Covers        services.CoverService
	Notifier      services.CatalogNotifier
	Catalog       services.CatalogService
	Enrichment    services.EnrichmentService
	UsageStats    services.UsageStatsService
	CampaignStats services.CampaignStatsService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, clients Clients, hub *sse.Hub) (Services, error) {
	log.Info("Wiring services...")

	covers, err := services.NewCoverService(db, log, repos.Book, clients.Bucket)
	if err != nil {
		return Services{}, fmt.Errorf("init cover service: %w", err)
	}
	notifier := services.NewCatalogNotifier(log, hub, clients.EventBus)
	catalog := services.NewCatalogService(db, log, repos.Book, repos.ChatLog, repos.Summary, repos.Suggestion, covers, notifier)
	enrichment := services.NewEnrichmentService(log, clients.Workflow, catalog)
	usageStats := services.NewUsageStatsService(db, log, repos.Signup, repos.ChatLog, repos.Summary)
	campaignStats := services.NewCampaignStatsService(db, log, repos.DentistLead, repos.AdvisorLead, repos.PostalCode)

	return Services{
		Covers:        covers,
		Notifier:      notifier,
		Catalog:       catalog,
		Enrichment:    enrichment,
		UsageStats:    usageStats,
		CampaignStats: campaignStats,
	}, nil
}
