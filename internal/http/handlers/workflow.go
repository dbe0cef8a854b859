package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

// WorkflowHandler fronts the workflow-automation endpoints the dashboard
// exposes: book file uploads and summary preview rendering.
type WorkflowHandler struct {
	log        *logger.Logger
	enrichment services.EnrichmentService
}

func NewWorkflowHandler(log *logger.Logger, enrichmentSvc services.EnrichmentService) *WorkflowHandler {
	return &WorkflowHandler{
		log:        log.With("handler", "WorkflowHandler"),
		enrichment: enrichmentSvc,
	}
}

// POST /api/upload
func (h *WorkflowHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	defer file.Close()

	res, err := h.enrichment.Ingest(c.Request.Context(), services.IngestUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		File:        file,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

type previewRequest struct {
	Style  string `json:"style" binding:"required"`
	Length string `json:"length" binding:"required"`
}

// POST /api/preview
// The workflow engine answers with an HTML fragment, not JSON; it is passed
// through verbatim for the dashboard to render.
func (h *WorkflowHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	html, err := h.enrichment.Preview(c.Request.Context(), req.Style, req.Length)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
