package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

const hookSecretHeader = "X-Webhook-Secret"

// HookHandler receives callbacks from the workflow engine. These arrive
// outside the admin session, so they authenticate with a shared secret
// instead of the access gate.
type HookHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
	secret  string
}

func NewHookHandler(log *logger.Logger, catalogSvc services.CatalogService) *HookHandler {
	return &HookHandler{
		log:     log.With("handler", "HookHandler"),
		catalog: catalogSvc,
		secret:  envutil.String("WEBHOOK_SECRET", ""),
	}
}

func (h *HookHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		h.log.Warn("WEBHOOK_SECRET not set, rejecting callback")
		return false
	}
	got := strings.TrimSpace(c.GetHeader(hookSecretHeader))
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

type enrichmentCallback struct {
	BookID string                    `json:"book_id" binding:"required"`
	Update services.EnrichmentUpdate `json:"update"`
}

// POST /hooks/enrichment
func (h *HookHandler) EnrichmentComplete(c *gin.Context) {
	if !h.authorized(c) {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", nil)
		return
	}
	var req enrichmentCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	book, err := h.catalog.ApplyEnrichment(c.Request.Context(), bookID, req.Update)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": book})
}
