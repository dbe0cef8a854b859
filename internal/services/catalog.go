package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/domain/catalog"
	pkgerrors "github.com/ostrauer/briefshelf-backend/internal/pkg/errors"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// EnrichmentUpdate is the payload the workflow engine posts back when it has
// finished enriching a book.
type EnrichmentUpdate struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	PageCount   int    `json:"page_count"`
}

type CatalogService interface {
	CreateBook(ctx context.Context, title, author string) (*types.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*types.Book, error)
	ListBooks(ctx context.Context, opts catalogrepo.ListBooksOptions) ([]*types.Book, int64, error)
	UpdateBook(ctx context.Context, bookID uuid.UUID, title, author, status string) (*types.Book, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
	ApplyEnrichment(ctx context.Context, bookID uuid.UUID, update EnrichmentUpdate) (*types.Book, error)
}

type catalogService struct {
	db          *gorm.DB
	log         *logger.Logger
	books       catalogrepo.BookRepo
	chatLogs    catalogrepo.ChatLogRepo
	summaries   catalogrepo.SummaryRepo
	suggestions catalogrepo.SuggestionRepo
	covers      CoverService
	notifier    CatalogNotifier
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	books catalogrepo.BookRepo,
	chatLogs catalogrepo.ChatLogRepo,
	summaries catalogrepo.SummaryRepo,
	suggestions catalogrepo.SuggestionRepo,
	covers CoverService,
	notifier CatalogNotifier,
) CatalogService {
	return &catalogService{
		db:          db,
		log:         log.With("service", "CatalogService"),
		books:       books,
		chatLogs:    chatLogs,
		summaries:   summaries,
		suggestions: suggestions,
		covers:      covers,
		notifier:    notifier,
	}
}

func (cs *catalogService) CreateBook(ctx context.Context, title, author string) (*types.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", pkgerrors.ErrInvalidArgument)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", pkgerrors.ErrInvalidArgument)
	}

	book := &types.Book{
		ID:     uuid.New(),
		Title:  title,
		Author: author,
		Status: types.BookStatusPending,
	}
	created, err := cs.books.Create(ctx, nil, []*types.Book{book})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	book = created[0]

	// Placeholder cover is cosmetic; failure must not fail the create.
	if cs.covers != nil {
		if err := cs.covers.EnsurePlaceholder(ctx, book); err != nil {
			cs.log.Warn("placeholder cover generation failed", "book_id", book.ID.String(), "error", err)
		}
	}
	return book, nil
}

func (cs *catalogService) GetBook(ctx context.Context, bookID uuid.UUID) (*types.Book, error) {
	books, err := cs.books.GetByIDs(ctx, nil, []uuid.UUID{bookID})
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("book %s: %w", bookID, pkgerrors.ErrNotFound)
	}
	return books[0], nil
}

func (cs *catalogService) ListBooks(ctx context.Context, opts catalogrepo.ListBooksOptions) ([]*types.Book, int64, error) {
	if opts.Status != "" && !catalog.ValidBookStatus(opts.Status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", pkgerrors.ErrInvalidArgument, opts.Status)
	}
	return cs.books.List(ctx, nil, opts)
}

func (cs *catalogService) UpdateBook(ctx context.Context, bookID uuid.UUID, title, author, status string) (*types.Book, error) {
	fields := map[string]any{}
	if t := strings.TrimSpace(title); t != "" {
		fields["title"] = t
	}
	if a := strings.TrimSpace(author); a != "" {
		fields["author"] = a
	}
	if status != "" {
		if !catalog.ValidBookStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", pkgerrors.ErrInvalidArgument, status)
		}
		fields["status"] = status
	}
	if len(fields) == 0 {
		return cs.GetBook(ctx, bookID)
	}

	if err := cs.books.UpdateFields(ctx, nil, bookID, fields); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	book, err := cs.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["status"]; ok {
		cs.notifier.BookStatusChanged(ctx, book)
	}
	return book, nil
}

// DeleteBook removes a book and its dependent rows. Dependents go first so
// referential constraints hold; the steps are deliberately sequential and
// non-transactional, matching the store's own guarantees. A failure aborts
// the cascade where it stands and leaves the parent in place, which is
// detectable and re-runnable.
func (cs *catalogService) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	if _, err := cs.GetBook(ctx, bookID); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"chat logs", func() error { return cs.chatLogs.DeleteByBookID(ctx, nil, bookID) }},
		{"summaries", func() error { return cs.summaries.DeleteByBookID(ctx, nil, bookID) }},
		{"suggestions", func() error { return cs.suggestions.DeleteByBookID(ctx, nil, bookID) }},
		{"book", func() error { return cs.books.Delete(ctx, nil, bookID) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("delete %s for book %s: %w", step.name, bookID, err)
		}
	}

	cs.notifier.BookDeleted(ctx, bookID)
	return nil
}

func (cs *catalogService) ApplyEnrichment(ctx context.Context, bookID uuid.UUID, update EnrichmentUpdate) (*types.Book, error) {
	status := strings.TrimSpace(update.Status)
	if status == "" {
		status = types.BookStatusCompleted
	}
	if !catalog.ValidBookStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", pkgerrors.ErrInvalidArgument, update.Status)
	}

	fields := map[string]any{"status": status}
	if v := strings.TrimSpace(update.Description); v != "" {
		fields["description"] = v
	}
	if v := strings.TrimSpace(update.Genre); v != "" {
		fields["genre"] = v
	}
	if v := strings.TrimSpace(update.ISBN); v != "" {
		fields["isbn"] = v
	}
	if update.PageCount > 0 {
		fields["page_count"] = update.PageCount
	}

	if err := cs.books.UpdateFields(ctx, nil, bookID, fields); err != nil {
		return nil, fmt.Errorf("apply enrichment: %w", err)
	}
	book, err := cs.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	cs.notifier.BookEnriched(ctx, book)
	return book, nil
}
