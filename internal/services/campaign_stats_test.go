package services

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	leadsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/leads"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeCounter serves the same counts through both the view path and the
// direct-count path so equivalence between them can be asserted.
type fakeCounter struct {
	counts    types.CampaignCounts
	statuses  map[string]int64
	viewErr   error
	viewCalls int
}

func (f *fakeCounter) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.counts.Total, nil
}

func (f *fakeCounter) CountActiveWithWebsite(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.counts.WithWebsite, nil
}

func (f *fakeCounter) CountActiveWithEmail(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.counts.WithEmail, nil
}

func (f *fakeCounter) CountContacted(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.counts.Contacted, nil
}

func (f *fakeCounter) CountExported(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.counts.Exported, nil
}

func (f *fakeCounter) EmailStatusCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	return f.statuses, nil
}

func (f *fakeCounter) CampaignCountsView(ctx context.Context, tx *gorm.DB) (*types.CampaignCounts, error) {
	f.viewCalls++
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	counts := f.counts
	return &counts, nil
}

// fakeDentistRepo and fakeAdvisorRepo extend the counter with the rest of
// the repo surface the service constructor demands; the stats service never
// touches the row-level methods.
type fakeDentistRepo struct {
	fakeCounter
	distinctCodes int64
}

func (f *fakeDentistRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DentistLead) ([]*types.DentistLead, error) {
	panic("not used by stats")
}

func (f *fakeDentistRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DentistLead, error) {
	panic("not used by stats")
}

func (f *fakeDentistRepo) List(ctx context.Context, tx *gorm.DB, opts leadsrepo.ListLeadsOptions) ([]*types.DentistLead, int64, error) {
	panic("not used by stats")
}

func (f *fakeDentistRepo) SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error {
	panic("not used by stats")
}

func (f *fakeDentistRepo) DistinctPostalCodes(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.distinctCodes, nil
}

type fakeAdvisorRepo struct {
	fakeCounter
}

func (f *fakeAdvisorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AdvisorLead) ([]*types.AdvisorLead, error) {
	panic("not used by stats")
}

func (f *fakeAdvisorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AdvisorLead, error) {
	panic("not used by stats")
}

func (f *fakeAdvisorRepo) List(ctx context.Context, tx *gorm.DB, opts leadsrepo.ListLeadsOptions) ([]*types.AdvisorLead, int64, error) {
	panic("not used by stats")
}

func (f *fakeAdvisorRepo) SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error {
	panic("not used by stats")
}

type fakePostalCodeRepo struct {
	total int64
}

func (f *fakePostalCodeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PostalCode) ([]*types.PostalCode, error) {
	panic("not used by stats")
}

func (f *fakePostalCodeRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return f.total, nil
}

func newCampaignStatsFixture(t *testing.T, dentists *fakeDentistRepo, advisors *fakeAdvisorRepo, codes *fakePostalCodeRepo) CampaignStatsService {
	t.Helper()
	if dentists == nil {
		dentists = &fakeDentistRepo{}
	}
	if advisors == nil {
		advisors = &fakeAdvisorRepo{}
	}
	if codes == nil {
		codes = &fakePostalCodeRepo{}
	}
	return NewCampaignStatsService(nil, testLogger(t), dentists, advisors, codes)
}

func TestCampaignCountsViewAndFallbackAgree(t *testing.T) {
	t.Parallel()

	counts := types.CampaignCounts{Total: 200, WithWebsite: 150, WithEmail: 120, Contacted: 3, Exported: 1}
	svc := newCampaignStatsFixture(t, nil, nil, nil).(*campaignStatsService)

	viaView := &fakeCounter{counts: counts}
	fromView, err := svc.campaignCounts(context.Background(), viaView, new(atomic.Bool))
	if err != nil {
		t.Fatalf("view path: %v", err)
	}

	viaFallback := &fakeCounter{counts: counts, viewErr: &pgconn.PgError{Code: "42883"}}
	fromFallback, err := svc.campaignCounts(context.Background(), viaFallback, new(atomic.Bool))
	if err != nil {
		t.Fatalf("fallback path: %v", err)
	}

	if fromView != fromFallback {
		t.Fatalf("paths disagree: view=%+v fallback=%+v", fromView, fromFallback)
	}
	if fromView != counts {
		t.Fatalf("counts = %+v, want %+v", fromView, counts)
	}
}

func TestCampaignCountsFallbackOnMissingFunctionMessage(t *testing.T) {
	t.Parallel()

	counts := types.CampaignCounts{Total: 10, Contacted: 2}
	svc := newCampaignStatsFixture(t, nil, nil, nil).(*campaignStatsService)

	source := &fakeCounter{
		counts:  counts,
		viewErr: errors.New(`function dentist_campaign_stats() does not exist`),
	}
	got, err := svc.campaignCounts(context.Background(), source, new(atomic.Bool))
	if err != nil {
		t.Fatalf("campaignCounts: %v", err)
	}
	if got != counts {
		t.Fatalf("counts = %+v, want %+v", got, counts)
	}
}

func TestCampaignCountsPropagatesRealViewErrors(t *testing.T) {
	t.Parallel()

	svc := newCampaignStatsFixture(t, nil, nil, nil).(*campaignStatsService)
	source := &fakeCounter{viewErr: &pgconn.PgError{Code: "57014", Message: "canceling statement"}}

	if _, err := svc.campaignCounts(context.Background(), source, new(atomic.Bool)); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCampaignCountsRemembersMissingFunction(t *testing.T) {
	t.Parallel()

	counts := types.CampaignCounts{Total: 10, Contacted: 2}
	dentists := &fakeDentistRepo{fakeCounter: fakeCounter{
		counts:  counts,
		viewErr: &pgconn.PgError{Code: "42883"},
	}}
	svc := newCampaignStatsFixture(t, dentists, nil, &fakePostalCodeRepo{total: 1})

	for i := 0; i < 3; i++ {
		stats, err := svc.DentistStats(context.Background())
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if stats.Total != counts.Total {
			t.Fatalf("call %d: total = %d, want %d", i, stats.Total, counts.Total)
		}
	}
	if dentists.viewCalls != 1 {
		t.Fatalf("view probed %d times, want 1", dentists.viewCalls)
	}
}

func TestDentistStatsPostalCoverage(t *testing.T) {
	t.Parallel()

	dentists := &fakeDentistRepo{
		fakeCounter: fakeCounter{
			counts:   types.CampaignCounts{Total: 200, WithWebsite: 150, WithEmail: 100, Contacted: 1, Exported: 0},
			statuses: map[string]int64{"ok:email_ok": 90, "risky:accept_all": 10},
		},
		distinctCodes: 40,
	}
	svc := newCampaignStatsFixture(t, dentists, nil, &fakePostalCodeRepo{total: 80})

	stats, err := svc.DentistStats(context.Background())
	if err != nil {
		t.Fatalf("DentistStats: %v", err)
	}
	if stats.PctWebsite != 75 {
		t.Fatalf("PctWebsite = %d, want 75", stats.PctWebsite)
	}
	if stats.PctEmail != 50 {
		t.Fatalf("PctEmail = %d, want 50", stats.PctEmail)
	}
	// One contacted lead out of 200 rounds to zero but must display as 1.
	if stats.PctContacted != 1 {
		t.Fatalf("PctContacted = %d, want 1", stats.PctContacted)
	}
	if stats.PctExported != 0 {
		t.Fatalf("PctExported = %d, want 0", stats.PctExported)
	}
	if stats.PostalCodesSeen != 40 || stats.PostalCodesTotal != 80 || stats.PctPostalCoverage != 50 {
		t.Fatalf("postal coverage = %d/%d (%d%%), want 40/80 (50%%)",
			stats.PostalCodesSeen, stats.PostalCodesTotal, stats.PctPostalCoverage)
	}
}

func TestAdvisorStatsHasNoPostalCoverage(t *testing.T) {
	t.Parallel()

	advisors := &fakeAdvisorRepo{
		fakeCounter: fakeCounter{
			counts:   types.CampaignCounts{Total: 50, WithEmail: 25},
			statuses: map[string]int64{"ok:email_ok": 25},
		},
	}
	svc := newCampaignStatsFixture(t, nil, advisors, nil)

	stats, err := svc.AdvisorStats(context.Background())
	if err != nil {
		t.Fatalf("AdvisorStats: %v", err)
	}
	if stats.PctEmail != 50 {
		t.Fatalf("PctEmail = %d, want 50", stats.PctEmail)
	}
	if stats.PostalCodesSeen != 0 || stats.PostalCodesTotal != 0 || stats.PctPostalCoverage != 0 {
		t.Fatalf("advisor stats carry postal coverage: %+v", stats)
	}
}

func TestEmailStatusBucketsOrderAndOmission(t *testing.T) {
	t.Parallel()

	got := emailStatusBuckets(map[string]int64{
		"risky:accept_all": 2,
		"ok:email_ok":      5,
		"weird:tag":        3,
		"":                 1,
	})
	want := []types.StatusCount{
		{Status: "ok:email_ok", Count: 5},
		{Status: "risky:accept_all", Count: 2},
		{Status: "unknown", Count: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("buckets = %+v, want %+v", got, want)
	}
}

func TestEmailStatusBucketsEmptyInput(t *testing.T) {
	t.Parallel()

	if got := emailStatusBuckets(nil); len(got) != 0 {
		t.Fatalf("buckets = %+v, want empty", got)
	}
}
