package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	pkgerrors "github.com/ostrauer/briefshelf-backend/internal/pkg/errors"
)

// cascadeLog records delete steps across the fakes so ordering can be
// asserted.
type cascadeLog struct {
	steps []string
}

type cascadeBookRepo struct {
	log     *cascadeLog
	book    *types.Book
	fields  map[string]any
	deleted bool
}

func (f *cascadeBookRepo) Create(ctx context.Context, tx *gorm.DB, books []*types.Book) ([]*types.Book, error) {
	return books, nil
}

func (f *cascadeBookRepo) GetByIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Book, error) {
	if f.book == nil || f.deleted {
		return nil, nil
	}
	for _, id := range bookIDs {
		if id == f.book.ID {
			return []*types.Book{f.book}, nil
		}
	}
	return nil, nil
}

func (f *cascadeBookRepo) List(ctx context.Context, tx *gorm.DB, opts catalogrepo.ListBooksOptions) ([]*types.Book, int64, error) {
	panic("not used")
}

func (f *cascadeBookRepo) UpdateFields(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, fields map[string]any) error {
	f.fields = fields
	if status, ok := fields["status"].(string); ok {
		f.book.Status = status
	}
	return nil
}

func (f *cascadeBookRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, status string) error {
	f.book.Status = status
	return nil
}

func (f *cascadeBookRepo) UpdateCover(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, bucketKey, coverURL string) error {
	return nil
}

func (f *cascadeBookRepo) Delete(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	f.log.steps = append(f.log.steps, "book")
	f.deleted = true
	return nil
}

type cascadeChatLogRepo struct {
	fakeChatLogRepo
	log  *cascadeLog
	fail error
}

func (f *cascadeChatLogRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	if f.fail != nil {
		return f.fail
	}
	f.log.steps = append(f.log.steps, "chat_logs")
	return nil
}

type cascadeSummaryRepo struct {
	fakeSummaryRepo
	log  *cascadeLog
	fail error
}

func (f *cascadeSummaryRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	if f.fail != nil {
		return f.fail
	}
	f.log.steps = append(f.log.steps, "summaries")
	return nil
}

type cascadeSuggestionRepo struct {
	log  *cascadeLog
	fail error
}

func (f *cascadeSuggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error) {
	panic("not used")
}

func (f *cascadeSuggestionRepo) GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Suggestion, error) {
	panic("not used")
}

func (f *cascadeSuggestionRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	if f.fail != nil {
		return f.fail
	}
	f.log.steps = append(f.log.steps, "suggestions")
	return nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) BookStatusChanged(ctx context.Context, book *types.Book) {
	n.events = append(n.events, "status_changed")
}

func (n *recordingNotifier) BookEnriched(ctx context.Context, book *types.Book) {
	n.events = append(n.events, "enriched")
}

func (n *recordingNotifier) BookDeleted(ctx context.Context, bookID uuid.UUID) {
	n.events = append(n.events, "deleted")
}

type catalogFixture struct {
	svc         CatalogService
	books       *cascadeBookRepo
	chatLogs    *cascadeChatLogRepo
	summaries   *cascadeSummaryRepo
	suggestions *cascadeSuggestionRepo
	notifier    *recordingNotifier
	log         *cascadeLog
}

func newCatalogFixture(t *testing.T, book *types.Book) *catalogFixture {
	t.Helper()
	log := &cascadeLog{}
	f := &catalogFixture{
		books:       &cascadeBookRepo{log: log, book: book},
		chatLogs:    &cascadeChatLogRepo{log: log},
		summaries:   &cascadeSummaryRepo{log: log},
		suggestions: &cascadeSuggestionRepo{log: log},
		notifier:    &recordingNotifier{},
		log:         log,
	}
	f.svc = NewCatalogService(nil, testLogger(t), f.books, f.chatLogs, f.summaries, f.suggestions, nil, f.notifier)
	return f
}

func testBook() *types.Book {
	return &types.Book{ID: uuid.New(), Title: "Deep Work", Author: "Cal Newport", Status: types.BookStatusCompleted}
}

func TestDeleteBookCascadeOrder(t *testing.T) {
	t.Parallel()

	book := testBook()
	f := newCatalogFixture(t, book)

	if err := f.svc.DeleteBook(context.Background(), book.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	want := []string{"chat_logs", "summaries", "suggestions", "book"}
	if !reflect.DeepEqual(f.log.steps, want) {
		t.Fatalf("cascade order = %v, want %v", f.log.steps, want)
	}
	if !reflect.DeepEqual(f.notifier.events, []string{"deleted"}) {
		t.Fatalf("notifier events = %v", f.notifier.events)
	}
}

func TestDeleteBookCascadeAbortsMidway(t *testing.T) {
	t.Parallel()

	book := testBook()
	f := newCatalogFixture(t, book)
	f.summaries.fail = errors.New("summary table locked")

	err := f.svc.DeleteBook(context.Background(), book.ID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// Chat logs went first and are gone; the failing step stops everything
	// after it, so the parent book must survive for a retry.
	if !reflect.DeepEqual(f.log.steps, []string{"chat_logs"}) {
		t.Fatalf("cascade steps = %v, want only chat_logs", f.log.steps)
	}
	if f.books.deleted {
		t.Fatal("book was deleted despite a failed dependent step")
	}
	if len(f.notifier.events) != 0 {
		t.Fatalf("notifier events = %v, want none", f.notifier.events)
	}
}

func TestDeleteBookUnknownID(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, testBook())
	err := f.svc.DeleteBook(context.Background(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(f.log.steps) != 0 {
		t.Fatalf("cascade ran for unknown book: %v", f.log.steps)
	}
}

func TestCreateBookValidation(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t, nil)
	if _, err := f.svc.CreateBook(context.Background(), "  ", "Author"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := f.svc.CreateBook(context.Background(), "Title", ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestUpdateBookRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	book := testBook()
	f := newCatalogFixture(t, book)
	if _, err := f.svc.UpdateBook(context.Background(), book.ID, "", "", "archived"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestUpdateBookStatusChangeNotifies(t *testing.T) {
	t.Parallel()

	book := testBook()
	f := newCatalogFixture(t, book)

	updated, err := f.svc.UpdateBook(context.Background(), book.ID, "", "", types.BookStatusFailed)
	if err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	if updated.Status != types.BookStatusFailed {
		t.Fatalf("status = %q, want %q", updated.Status, types.BookStatusFailed)
	}
	if !reflect.DeepEqual(f.notifier.events, []string{"status_changed"}) {
		t.Fatalf("notifier events = %v", f.notifier.events)
	}
}

func TestApplyEnrichmentDefaultsToCompleted(t *testing.T) {
	t.Parallel()

	book := testBook()
	book.Status = types.BookStatusProcessing
	f := newCatalogFixture(t, book)

	updated, err := f.svc.ApplyEnrichment(context.Background(), book.ID, EnrichmentUpdate{
		Description: "A book about focus.",
		Genre:       "Self-help",
		PageCount:   304,
	})
	if err != nil {
		t.Fatalf("ApplyEnrichment: %v", err)
	}
	if updated.Status != types.BookStatusCompleted {
		t.Fatalf("status = %q, want %q", updated.Status, types.BookStatusCompleted)
	}
	if f.books.fields["description"] != "A book about focus." || f.books.fields["page_count"] != 304 {
		t.Fatalf("fields = %+v", f.books.fields)
	}
	if !reflect.DeepEqual(f.notifier.events, []string{"enriched"}) {
		t.Fatalf("notifier events = %v", f.notifier.events)
	}
}
