package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ostrauer/briefshelf-backend/internal/data/repos/testutil"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
)

func seedBooks(t *testing.T, repo BookRepo, tx *gorm.DB) []*types.Book {
	t.Helper()
	books := []*types.Book{
		{Title: "Atomic Habits", Author: "James Clear", Status: types.BookStatusCompleted},
		{Title: "Deep Work", Author: "Cal Newport", Status: types.BookStatusCompleted},
		{Title: "Ultralearning", Author: "Scott Young", Status: types.BookStatusPending},
	}
	created, err := repo.Create(context.Background(), tx, books)
	if err != nil {
		t.Fatalf("seed books: %v", err)
	}
	return created
}

func TestBookRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedBooks(t, repo, tx)

	got, total, err := repo.List(ctx, tx, ListBooksOptions{Status: types.BookStatusCompleted})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("status filter: total=%d len=%d, want 2/2", total, len(got))
	}

	got, total, err = repo.List(ctx, tx, ListBooksOptions{Search: "newport"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("search filter: total=%d len=%d, want 1/1", total, len(got))
	}
	if got[0].Title != "Deep Work" {
		t.Fatalf("search filter: got %q, want Deep Work", got[0].Title)
	}
}

func TestBookRepoListSortAndPagination(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedBooks(t, repo, tx)

	got, total, err := repo.List(ctx, tx, ListBooksOptions{SortBy: "title", SortDir: "asc", Limit: 2})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(got) != 2 || got[0].Title != "Atomic Habits" || got[1].Title != "Deep Work" {
		t.Fatalf("page 1 unexpected: %v", titles(got))
	}

	got, _, err = repo.List(ctx, tx, ListBooksOptions{SortBy: "title", SortDir: "asc", Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Ultralearning" {
		t.Fatalf("page 2 unexpected: %v", titles(got))
	}

	// Unknown sort columns fall back to created_at instead of leaking into SQL.
	if _, _, err := repo.List(ctx, tx, ListBooksOptions{SortBy: "title; DROP TABLE book"}); err != nil {
		t.Fatalf("list with bogus sort column: %v", err)
	}
}

func TestBookRepoDeleteSoftDeletes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created := seedBooks(t, repo, tx)
	id := created[0].ID

	if err := repo.Delete(ctx, tx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("deleted book still visible: %+v", got)
	}

	_, total, err := repo.List(ctx, tx, ListBooksOptions{})
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if total != 2 {
		t.Fatalf("total after delete = %d, want 2", total)
	}
}

func TestBookRepoUpdateFieldsAndStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBookRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created := seedBooks(t, repo, tx)
	id := created[2].ID

	err := repo.UpdateFields(ctx, tx, id, map[string]any{
		"genre":      "self-help",
		"page_count": 320,
	})
	if err != nil {
		t.Fatalf("update fields: %v", err)
	}
	if err := repo.UpdateStatus(ctx, tx, id, types.BookStatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil || len(got) != 1 {
		t.Fatalf("get updated: %v (%d rows)", err, len(got))
	}
	if got[0].Genre != "self-help" || got[0].PageCount != 320 || got[0].Status != types.BookStatusCompleted {
		t.Fatalf("update not applied: %+v", got[0])
	}
}

func titles(books []*types.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
