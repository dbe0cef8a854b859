package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	leadsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/leads"
	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type LeadHandler struct {
	log      *logger.Logger
	dentists leadsrepo.DentistLeadRepo
	advisors leadsrepo.AdvisorLeadRepo
}

func NewLeadHandler(log *logger.Logger, dentists leadsrepo.DentistLeadRepo, advisors leadsrepo.AdvisorLeadRepo) *LeadHandler {
	return &LeadHandler{
		log:      log.With("handler", "LeadHandler"),
		dentists: dentists,
		advisors: advisors,
	}
}

func leadListOptions(c *gin.Context) leadsrepo.ListLeadsOptions {
	return leadsrepo.ListLeadsOptions{
		Search:            c.Query("search"),
		IncludeDuplicates: c.Query("include_duplicates") == "true",
		Offset:            queryInt(c, "offset", 0),
		Limit:             queryInt(c, "limit", 50),
	}
}

// GET /api/leads/dentists
func (h *LeadHandler) ListDentists(c *gin.Context) {
	leads, total, err := h.dentists.List(c.Request.Context(), nil, leadListOptions(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leads": leads, "total": total})
}

// GET /api/leads/advisors
func (h *LeadHandler) ListAdvisors(c *gin.Context) {
	leads, total, err := h.advisors.List(c.Request.Context(), nil, leadListOptions(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leads": leads, "total": total})
}

type setDuplicateRequest struct {
	Duplicate *bool `json:"duplicate" binding:"required"`
}

// PATCH /api/leads/dentists/:id/duplicate
func (h *LeadHandler) SetDentistDuplicate(c *gin.Context) {
	h.setDuplicate(c, h.dentists.SetDuplicate)
}

// PATCH /api/leads/advisors/:id/duplicate
func (h *LeadHandler) SetAdvisorDuplicate(c *gin.Context) {
	h.setDuplicate(c, h.advisors.SetDuplicate)
}

func (h *LeadHandler) setDuplicate(c *gin.Context, set func(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req setDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := set(c.Request.Context(), nil, leadID, *req.Duplicate); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
