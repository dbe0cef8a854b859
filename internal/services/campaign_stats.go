package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	leadsdomain "github.com/ostrauer/briefshelf-backend/internal/domain/leads"
	leadsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/leads"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// CampaignStatsService computes read-only campaign snapshots for the two
// outreach campaigns. Nothing is persisted; every call recomputes against
// the live tables so numerators and denominators always share one filter.
type CampaignStatsService interface {
	DentistStats(ctx context.Context) (*types.CampaignStats, error)
	AdvisorStats(ctx context.Context) (*types.CampaignStats, error)
}

type campaignStatsService struct {
	db          *gorm.DB
	log         *logger.Logger
	dentists    leadsrepo.DentistLeadRepo
	advisors    leadsrepo.AdvisorLeadRepo
	postalCodes leadsrepo.PostalCodeRepo

	// Set once a campaign's stats function probe fails with SQLSTATE 42883;
	// later calls skip the probe. A migration adding the function takes
	// effect on restart.
	dentistViewMissing atomic.Bool
	advisorViewMissing atomic.Bool
}

func NewCampaignStatsService(
	db *gorm.DB,
	log *logger.Logger,
	dentists leadsrepo.DentistLeadRepo,
	advisors leadsrepo.AdvisorLeadRepo,
	postalCodes leadsrepo.PostalCodeRepo,
) CampaignStatsService {
	return &campaignStatsService{
		db:          db,
		log:         log.With("service", "CampaignStatsService"),
		dentists:    dentists,
		advisors:    advisors,
		postalCodes: postalCodes,
	}
}

func (cs *campaignStatsService) DentistStats(ctx context.Context) (*types.CampaignStats, error) {
	var (
		counts       types.CampaignCounts
		statusCounts map[string]int64
		codesSeen    int64
		codesTotal   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = cs.campaignCounts(gctx, cs.dentists, &cs.dentistViewMissing)
		return err
	})
	g.Go(func() error {
		var err error
		statusCounts, err = cs.dentists.EmailStatusCounts(gctx, nil)
		if err != nil {
			return fmt.Errorf("dentist email status counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		codesSeen, err = cs.dentists.DistinctPostalCodes(gctx, nil)
		if err != nil {
			return fmt.Errorf("dentist distinct postal codes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		codesTotal, err = cs.postalCodes.Count(gctx, nil)
		if err != nil {
			return fmt.Errorf("postal code reference count: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := buildCampaignStats(counts, statusCounts)
	stats.PostalCodesSeen = codesSeen
	stats.PostalCodesTotal = codesTotal
	stats.PctPostalCoverage = pct(codesSeen, codesTotal)
	return stats, nil
}

func (cs *campaignStatsService) AdvisorStats(ctx context.Context) (*types.CampaignStats, error) {
	var (
		counts       types.CampaignCounts
		statusCounts map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = cs.campaignCounts(gctx, cs.advisors, &cs.advisorViewMissing)
		return err
	})
	g.Go(func() error {
		var err error
		statusCounts, err = cs.advisors.EmailStatusCounts(gctx, nil)
		if err != nil {
			return fmt.Errorf("advisor email status counts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildCampaignStats(counts, statusCounts), nil
}

// campaignCounts prefers the precomputed database function and falls back to
// direct count queries when the function is absent. Both paths must agree
// numerically; only availability differs. A failed probe is remembered in
// viewMissing for the remainder of the process.
func (cs *campaignStatsService) campaignCounts(ctx context.Context, source leadsrepo.CampaignCounter, viewMissing *atomic.Bool) (types.CampaignCounts, error) {
	if !viewMissing.Load() {
		if row, err := source.CampaignCountsView(ctx, nil); err == nil {
			return *row, nil
		} else if !isUndefinedFunction(err) {
			return types.CampaignCounts{}, fmt.Errorf("campaign stats view: %w", err)
		}
		viewMissing.Store(true)
		cs.log.Info("campaign stats function absent, using direct count queries")
	}

	var out types.CampaignCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Total, err = source.CountActive(gctx, nil)
		if err != nil {
			return fmt.Errorf("count leads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.WithWebsite, err = source.CountActiveWithWebsite(gctx, nil)
		if err != nil {
			return fmt.Errorf("count leads with website: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.WithEmail, err = source.CountActiveWithEmail(gctx, nil)
		if err != nil {
			return fmt.Errorf("count leads with email: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.Contacted, err = source.CountContacted(gctx, nil)
		if err != nil {
			return fmt.Errorf("count contacted leads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.Exported, err = source.CountExported(gctx, nil)
		if err != nil {
			return fmt.Errorf("count exported leads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.CampaignCounts{}, err
	}
	return out, nil
}

func buildCampaignStats(counts types.CampaignCounts, statusCounts map[string]int64) *types.CampaignStats {
	return &types.CampaignStats{
		CampaignCounts: counts,
		PctWebsite:     pct(counts.WithWebsite, counts.Total),
		PctEmail:       pct(counts.WithEmail, counts.Total),
		PctContacted:   pctFloor(counts.Contacted, counts.Total),
		PctExported:    pctFloor(counts.Exported, counts.Total),
		EmailStatus:    emailStatusBuckets(statusCounts),
	}
}

// emailStatusBuckets folds raw status counts into the fixed presentation
// order: the three known tags, then a single unknown bucket for everything
// else. Empty buckets are omitted entirely; consumers iterate present keys.
func emailStatusBuckets(statusCounts map[string]int64) []types.StatusCount {
	out := make([]types.StatusCount, 0, len(leadsdomain.EmailStatusOrder)+1)
	seen := make(map[string]bool, len(leadsdomain.EmailStatusOrder))
	for _, status := range leadsdomain.EmailStatusOrder {
		seen[status] = true
		if c := statusCounts[status]; c > 0 {
			out = append(out, types.StatusCount{Status: status, Count: c})
		}
	}
	var unknown int64
	for status, c := range statusCounts {
		if !seen[status] {
			unknown += c
		}
	}
	if unknown > 0 {
		out = append(out, types.StatusCount{Status: leadsdomain.EmailStatusUnknown, Count: unknown})
	}
	return out
}

// isUndefinedFunction reports whether an error means the database has no
// precomputed stats function (SQLSTATE 42883). That is the capability probe
// for the fast path; any other failure is a real error.
func isUndefinedFunction(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42883"
	}
	return strings.Contains(err.Error(), "does not exist")
}
