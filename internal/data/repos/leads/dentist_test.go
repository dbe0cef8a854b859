package leads

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/ostrauer/briefshelf-backend/internal/data/repos/testutil"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
)

func seedDentists(t *testing.T, repo DentistLeadRepo, tx *gorm.DB) []*types.DentistLead {
	t.Helper()
	rows := []*types.DentistLead{
		{
			PracticeName:     "Zahnarztpraxis Dr. Weber",
			Email:            "praxis@weber.de",
			Website:          "https://weber.de",
			City:             "Berlin",
			PostalCode:       "10115",
			EmailStatus:      types.EmailStatusOK,
			FirstContactSent: true,
		},
		{
			PracticeName: "Praxis Lächeln",
			Email:        "info@laecheln.de",
			City:         "Hamburg",
			PostalCode:   "20095",
			EmailStatus:  types.EmailStatusAcceptAll,
			Exported:     true,
		},
		{
			PracticeName: "Dentalzentrum Mitte",
			Website:      "https://dz-mitte.de",
			City:         "Berlin",
			PostalCode:   "10115",
			EmailStatus:  "smtp:weird",
		},
		{
			// Duplicate of the first row; excluded from every metric and list.
			PracticeName:     "Zahnarztpraxis Dr. Weber",
			Email:            "praxis@weber.de",
			Website:          "https://weber.de",
			City:             "Berlin",
			PostalCode:       "10115",
			EmailStatus:      types.EmailStatusOK,
			FirstContactSent: true,
			Duplicate:        true,
		},
	}
	created, err := repo.Create(context.Background(), tx, rows)
	if err != nil {
		t.Fatalf("seed dentist leads: %v", err)
	}
	return created
}

func TestDentistRepoCountsExcludeDuplicates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDentistLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedDentists(t, repo, tx)

	checks := []struct {
		name  string
		count func(context.Context, *gorm.DB) (int64, error)
		want  int64
	}{
		{"CountActive", repo.CountActive, 3},
		{"CountActiveWithWebsite", repo.CountActiveWithWebsite, 2},
		{"CountActiveWithEmail", repo.CountActiveWithEmail, 2},
		{"CountContacted", repo.CountContacted, 1},
		{"CountExported", repo.CountExported, 1},
	}
	for _, c := range checks {
		got, err := c.count(ctx, tx)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestDentistRepoEmailStatusCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDentistLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedDentists(t, repo, tx)

	counts, err := repo.EmailStatusCounts(ctx, tx)
	if err != nil {
		t.Fatalf("email status counts: %v", err)
	}
	// The duplicate ok:email_ok row must not be counted.
	want := map[string]int64{
		types.EmailStatusOK:        1,
		types.EmailStatusAcceptAll: 1,
		"smtp:weird":               1,
	}
	if len(counts) != len(want) {
		t.Fatalf("EmailStatusCounts = %v, want %v", counts, want)
	}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("counts[%q] = %d, want %d", status, counts[status], n)
		}
	}
}

func TestDentistRepoDistinctPostalCodes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDentistLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedDentists(t, repo, tx)

	got, err := repo.DistinctPostalCodes(ctx, tx)
	if err != nil {
		t.Fatalf("distinct postal codes: %v", err)
	}
	// 10115 appears twice (once on the duplicate), 20095 once.
	if got != 2 {
		t.Fatalf("DistinctPostalCodes = %d, want 2", got)
	}
}

func TestDentistRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDentistLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	seedDentists(t, repo, tx)

	_, total, err := repo.List(ctx, tx, ListLeadsOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3 (duplicates excluded)", total)
	}

	_, total, err = repo.List(ctx, tx, ListLeadsOptions{IncludeDuplicates: true})
	if err != nil {
		t.Fatalf("list with duplicates: %v", err)
	}
	if total != 4 {
		t.Fatalf("total with duplicates = %d, want 4", total)
	}

	got, total, err := repo.List(ctx, tx, ListLeadsOptions{Search: "hamburg"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].PracticeName != "Praxis Lächeln" {
		t.Fatalf("search: total=%d rows=%v", total, got)
	}
}

func TestDentistRepoSetDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDentistLeadRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created := seedDentists(t, repo, tx)

	if err := repo.SetDuplicate(ctx, tx, created[2].ID, true); err != nil {
		t.Fatalf("set duplicate: %v", err)
	}
	active, err := repo.CountActive(ctx, tx)
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 2 {
		t.Fatalf("CountActive after flag = %d, want 2", active)
	}

	if err := repo.SetDuplicate(ctx, tx, created[2].ID, false); err != nil {
		t.Fatalf("clear duplicate: %v", err)
	}
	active, err = repo.CountActive(ctx, tx)
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 3 {
		t.Fatalf("CountActive after clear = %d, want 3", active)
	}
}
