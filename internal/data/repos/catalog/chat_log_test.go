package catalog

import (
	"context"
	"testing"

	"github.com/ostrauer/briefshelf-backend/internal/data/repos/testutil"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
)

func TestChatLogRepoCountCanned(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	books := NewBookRepo(db, log)
	suggestions := NewSuggestionRepo(db, log)
	chatLogs := NewChatLogRepo(db, log)

	created, err := books.Create(ctx, tx, []*types.Book{{Title: "Deep Work", Author: "Cal Newport"}})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	bookID := created[0].ID

	_, err = suggestions.Create(ctx, tx, []*types.Suggestion{
		{BookID: bookID, Text: "What is the main idea?"},
		{BookID: bookID, Text: "Who should read this?"},
	})
	if err != nil {
		t.Fatalf("create suggestions: %v", err)
	}

	// Matching is case-insensitive and ignores surrounding whitespace.
	_, err = chatLogs.Create(ctx, tx, []*types.ChatLog{
		{BookID: bookID, Message: "what is the main idea?  "},
		{BookID: bookID, Message: "WHO SHOULD READ THIS?"},
		{BookID: bookID, Message: "Summarize chapter three for me"},
	})
	if err != nil {
		t.Fatalf("create chat logs: %v", err)
	}

	all, err := chatLogs.CountAll(ctx, tx)
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if all != 3 {
		t.Fatalf("CountAll = %d, want 3", all)
	}

	canned, err := chatLogs.CountCanned(ctx, tx)
	if err != nil {
		t.Fatalf("count canned: %v", err)
	}
	if canned != 2 {
		t.Fatalf("CountCanned = %d, want 2", canned)
	}
}

func TestChatLogRepoDeleteByBookID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	books := NewBookRepo(db, log)
	chatLogs := NewChatLogRepo(db, log)

	created, err := books.Create(ctx, tx, []*types.Book{
		{Title: "A", Author: "X"},
		{Title: "B", Author: "Y"},
	})
	if err != nil {
		t.Fatalf("create books: %v", err)
	}

	_, err = chatLogs.Create(ctx, tx, []*types.ChatLog{
		{BookID: created[0].ID, Message: "first"},
		{BookID: created[0].ID, Message: "second"},
		{BookID: created[1].ID, Message: "third"},
	})
	if err != nil {
		t.Fatalf("create chat logs: %v", err)
	}

	if err := chatLogs.DeleteByBookID(ctx, tx, created[0].ID); err != nil {
		t.Fatalf("delete by book: %v", err)
	}

	remaining, err := chatLogs.CountAll(ctx, tx)
	if err != nil {
		t.Fatalf("count after delete: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("CountAll after delete = %d, want 1", remaining)
	}
}
