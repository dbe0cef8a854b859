package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	catalogrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/catalog"
	statsrepo "github.com/ostrauer/briefshelf-backend/internal/data/repos/stats"
	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// UsageStatsService assembles the general dashboard stats: signups, chat-log
// traffic and generated-summary distribution. Each block is independent;
// the whole call fails if any query fails, partial results are never
// returned.
type UsageStatsService interface {
	Get(ctx context.Context) (*types.UsageStats, error)
}

type usageStatsService struct {
	db        *gorm.DB
	log       *logger.Logger
	signups   statsrepo.SignupRepo
	chatLogs  catalogrepo.ChatLogRepo
	summaries catalogrepo.SummaryRepo
}

func NewUsageStatsService(
	db *gorm.DB,
	log *logger.Logger,
	signups statsrepo.SignupRepo,
	chatLogs catalogrepo.ChatLogRepo,
	summaries catalogrepo.SummaryRepo,
) UsageStatsService {
	return &usageStatsService{
		db:        db,
		log:       log.With("service", "UsageStatsService"),
		signups:   signups,
		chatLogs:  chatLogs,
		summaries: summaries,
	}
}

func (us *usageStatsService) Get(ctx context.Context) (*types.UsageStats, error) {
	var out types.UsageStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := us.signups.SignupsByMonth(gctx, nil)
		if err != nil {
			return fmt.Errorf("signups by month: %w", err)
		}
		out.SignupsByMonth = rows
		return nil
	})
	g.Go(func() error {
		stats, err := us.chatLogStats(gctx)
		if err != nil {
			return err
		}
		out.ChatLogs = *stats
		return nil
	})
	g.Go(func() error {
		stats, err := us.summaryStats(gctx)
		if err != nil {
			return err
		}
		out.Summaries = *stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (us *usageStatsService) chatLogStats(ctx context.Context) (*types.ChatLogStats, error) {
	var stats types.ChatLogStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Total, err = us.chatLogs.CountAll(gctx, nil)
		if err != nil {
			return fmt.Errorf("count chat logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats.Canned, err = us.chatLogs.CountCanned(gctx, nil)
		if err != nil {
			return fmt.Errorf("count canned chat logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := us.chatLogs.CountsByDay(gctx, nil)
		if err != nil {
			return fmt.Errorf("chat logs per day: %w", err)
		}
		stats.PerDay = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Custom = stats.Total - stats.Canned
	return &stats, nil
}

func (us *usageStatsService) summaryStats(ctx context.Context) (*types.SummaryStats, error) {
	var stats types.SummaryStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Total, err = us.summaries.CountAll(gctx, nil)
		if err != nil {
			return fmt.Errorf("count summaries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := us.summaries.CountsByStyle(gctx, nil)
		if err != nil {
			return fmt.Errorf("summaries by style: %w", err)
		}
		stats.ByStyle = rows
		return nil
	})
	g.Go(func() error {
		rows, err := us.summaries.CountsByLength(gctx, nil)
		if err != nil {
			return fmt.Errorf("summaries by length: %w", err)
		}
		stats.ByLength = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
