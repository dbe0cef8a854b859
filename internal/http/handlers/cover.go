package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

const maxCoverBytes = 10 << 20

type CoverHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
	covers  services.CoverService
}

func NewCoverHandler(log *logger.Logger, catalogSvc services.CatalogService, coverSvc services.CoverService) *CoverHandler {
	return &CoverHandler{
		log:     log.With("handler", "CoverHandler"),
		catalog: catalogSvc,
		covers:  coverSvc,
	}
}

// PUT /api/books/:id/cover
func (h *CoverHandler) Upload(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), bookID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if fileHeader.Size > maxCoverBytes {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxCoverBytes))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := h.covers.UploadCover(c.Request.Context(), book, raw); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, book)
}

// DELETE /api/books/:id/cover
func (h *CoverHandler) Delete(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), bookID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if err := h.covers.DeleteCover(c.Request.Context(), book); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
