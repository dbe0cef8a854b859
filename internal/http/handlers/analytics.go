package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	usage     services.UsageStatsService
	campaigns services.CampaignStatsService
}

func NewAnalyticsHandler(log *logger.Logger, usage services.UsageStatsService, campaigns services.CampaignStatsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:       log.With("handler", "AnalyticsHandler"),
		usage:     usage,
		campaigns: campaigns,
	}
}

// GET /api/analytics/usage
func (h *AnalyticsHandler) Usage(c *gin.Context) {
	stats, err := h.usage.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/analytics/campaigns/dentists
func (h *AnalyticsHandler) DentistCampaign(c *gin.Context) {
	stats, err := h.campaigns.DentistStats(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/analytics/campaigns/advisors
func (h *AnalyticsHandler) AdvisorCampaign(c *gin.Context) {
	stats, err := h.campaigns.AdvisorStats(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
