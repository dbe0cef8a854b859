package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
	"github.com/ostrauer/briefshelf-backend/internal/services"
)

type fakeCatalogService struct {
	applied       bool
	appliedBookID uuid.UUID
	appliedUpdate services.EnrichmentUpdate
}

func (f *fakeCatalogService) CreateBook(ctx context.Context, title, author string) (*types.Book, error) {
	panic("not used")
}

func (f *fakeCatalogService) GetBook(ctx context.Context, bookID uuid.UUID) (*types.Book, error) {
	panic("not used")
}

func (f *fakeCatalogService) ListBooks(ctx context.Context, opts catalogrepo.ListBooksOptions) ([]*types.Book, int64, error) {
	panic("not used")
}

func (f *fakeCatalogService) UpdateBook(ctx context.Context, bookID uuid.UUID, title, author, status string) (*types.Book, error) {
	panic("not used")
}

func (f *fakeCatalogService) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	panic("not used")
}

func (f *fakeCatalogService) ApplyEnrichment(ctx context.Context, bookID uuid.UUID, update services.EnrichmentUpdate) (*types.Book, error) {
	f.applied = true
	f.appliedBookID = bookID
	f.appliedUpdate = update
	return &types.Book{ID: bookID, Status: types.BookStatusCompleted}, nil
}

func hookRouter(t *testing.T, catalog services.CatalogService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewHookHandler(log, catalog)
	r := gin.New()
	r.POST("/hooks/enrichment", h.EnrichmentComplete)
	return r
}

func TestEnrichmentCallbackRequiresSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	catalog := &fakeCatalogService{}
	r := hookRouter(t, catalog)

	body := `{"book_id":"` + uuid.New().String() + `","update":{"status":"completed"}}`

	req := httptest.NewRequest(http.MethodPost, "/hooks/enrichment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodPost, "/hooks/enrichment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	if catalog.applied {
		t.Fatal("enrichment applied without a valid secret")
	}
}

func TestEnrichmentCallbackAppliesUpdate(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	catalog := &fakeCatalogService{}
	r := hookRouter(t, catalog)
	bookID := uuid.New()

	body := `{"book_id":"` + bookID.String() + `","update":{"status":"completed","genre":"Productivity","page_count":304}}`
	req := httptest.NewRequest(http.MethodPost, "/hooks/enrichment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "s3cret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !catalog.applied || catalog.appliedBookID != bookID {
		t.Fatalf("apply = %v book=%s, want %s", catalog.applied, catalog.appliedBookID, bookID)
	}
	if catalog.appliedUpdate.Genre != "Productivity" || catalog.appliedUpdate.PageCount != 304 {
		t.Fatalf("update = %+v", catalog.appliedUpdate)
	}
}

func TestEnrichmentCallbackRejectsBadBookID(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	catalog := &fakeCatalogService{}
	r := hookRouter(t, catalog)

	req := httptest.NewRequest(http.MethodPost, "/hooks/enrichment", strings.NewReader(`{"book_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "s3cret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if catalog.applied {
		t.Fatal("enrichment applied for invalid book id")
	}
}
