package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	"github.com/ostrauer/briefshelf-backend/internal/http/response"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

type BookHandler struct {
	log        *logger.Logger
	catalog    services.CatalogService
	enrichment services.EnrichmentService
}

func NewBookHandler(log *logger.Logger, catalogSvc services.CatalogService, enrichmentSvc services.EnrichmentService) *BookHandler {
	return &BookHandler{
		log:        log.With("handler", "BookHandler"),
		catalog:    catalogSvc,
		enrichment: enrichmentSvc,
	}
}

type createBookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	book, err := h.catalog.CreateBook(c.Request.Context(), req.Title, req.Author)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, book)
}

// GET /api/books
func (h *BookHandler) List(c *gin.Context) {
	opts := catalogrepo.ListBooksOptions{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		SortBy:  c.Query("sort_by"),
		SortDir: c.Query("sort_dir"),
		Offset:  queryInt(c, "offset", 0),
		Limit:   queryInt(c, "limit", 25),
	}
	books, total, err := h.catalog.ListBooks(c.Request.Context(), opts)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"books": books, "total": total})
}

// GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
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
	response.RespondOK(c, book)
}

type updateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Status string `json:"status"`
}

// PATCH /api/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	book, err := h.catalog.UpdateBook(c.Request.Context(), bookID, req.Title, req.Author, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, book)
}

// DELETE /api/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	if err := h.catalog.DeleteBook(c.Request.Context(), bookID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/books/:id/enrich
func (h *BookHandler) Enrich(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}
	res, err := h.enrichment.TriggerEnrichment(c.Request.Context(), bookID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
