package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	workflowclient "github.com/ostrauer/briefshelf-backend/internal/clients/workflow"
	"github.com/ostrauer/briefshelf-backend/internal/domain/catalog"
	pkgerrors "github.com/ostrauer/briefshelf-backend/internal/pkg/errors"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// allowed upload MIME types. The workflow engine only parses PDFs and EPUBs;
// rejecting everything else here keeps a bad upload from ever reaching it.
var ingestContentTypes = map[string]bool{
	"application/pdf":      true,
	"application/epub":     true,
	"application/epub+zip": true,
}

const maxIngestBytes = 50 << 20

// Ingestion request as received from the dashboard upload form.
type IngestUpload struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// EnrichmentService fronts the workflow-automation webhooks: book file
// ingestion, per-book enrichment kicks and summary preview rendering. It
// validates everything locally before spending a webhook call.
type EnrichmentService interface {
	Ingest(ctx context.Context, upload IngestUpload) (*workflowclient.Result, error)
	TriggerEnrichment(ctx context.Context, bookID uuid.UUID) (*workflowclient.Result, error)
	Preview(ctx context.Context, style, length string) (string, error)
}

type enrichmentService struct {
	log      *logger.Logger
	workflow workflowclient.Client
	catalog  CatalogService
}

func NewEnrichmentService(log *logger.Logger, workflow workflowclient.Client, catalogSvc CatalogService) EnrichmentService {
	return &enrichmentService{
		log:      log.With("service", "EnrichmentService"),
		workflow: workflow,
		catalog:  catalogSvc,
	}
}

func (es *enrichmentService) Ingest(ctx context.Context, upload IngestUpload) (*workflowclient.Result, error) {
	if upload.File == nil {
		return nil, fmt.Errorf("%w: no file provided", pkgerrors.ErrInvalidArgument)
	}
	filename := strings.TrimSpace(upload.Filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename required", pkgerrors.ErrInvalidArgument)
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !ingestContentTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported file type %q, expected PDF or EPUB", pkgerrors.ErrInvalidArgument, upload.ContentType)
	}
	if upload.Size > maxIngestBytes {
		return nil, fmt.Errorf("%w: file exceeds %d MB limit", pkgerrors.ErrInvalidArgument, maxIngestBytes>>20)
	}

	es.log.Info("forwarding upload to workflow engine", "filename", filename, "content_type", contentType, "size", upload.Size)
	res, err := es.workflow.IngestFile(ctx, filename, contentType, io.LimitReader(upload.File, maxIngestBytes))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		es.log.Warn("workflow engine rejected upload", "filename", filename)
	}
	return res, nil
}

func (es *enrichmentService) TriggerEnrichment(ctx context.Context, bookID uuid.UUID) (*workflowclient.Result, error) {
	book, err := es.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Status == catalog.BookStatusProcessing {
		return nil, fmt.Errorf("%w: book is already being processed", pkgerrors.ErrInvalidArgument)
	}

	res, err := es.workflow.EnrichBook(ctx, workflowclient.EnrichBookRequest{
		BookID: book.ID.String(),
		Title:  book.Title,
		Author: book.Author,
	})
	if err != nil {
		return nil, err
	}
	if res.Success {
		if _, err := es.catalog.UpdateBook(ctx, bookID, "", "", catalog.BookStatusProcessing); err != nil {
			es.log.Warn("could not mark book as processing", "book_id", bookID, "error", err)
		}
	}
	return res, nil
}

func (es *enrichmentService) Preview(ctx context.Context, style, length string) (string, error) {
	if !catalog.ValidSummaryStyle(style) {
		return "", fmt.Errorf("%w: unknown summary style %q", pkgerrors.ErrInvalidArgument, style)
	}
	if !catalog.ValidSummaryLength(length) {
		return "", fmt.Errorf("%w: unknown summary length %q", pkgerrors.ErrInvalidArgument, length)
	}
	return es.workflow.RenderPreview(ctx, style, length)
}
