package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type SummaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, summaries []*types.Summary) ([]*types.Summary, error)
	GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Summary, error)
	DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error

	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	CountsByStyle(ctx context.Context, tx *gorm.DB) ([]types.TagCount, error)
	CountsByLength(ctx context.Context, tx *gorm.DB) ([]types.TagCount, error)
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	return &summaryRepo{db: db, log: baseLog.With("repo", "SummaryRepo")}
}

func (sr *summaryRepo) Create(ctx context.Context, tx *gorm.DB, summaries []*types.Summary) ([]*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(summaries) == 0 {
		return []*types.Summary{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (sr *summaryRepo) GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Summary
	if len(bookIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("book_id IN ?", bookIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *summaryRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&types.Summary{}).Error
}

func (sr *summaryRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Summary{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *summaryRepo) CountsByStyle(ctx context.Context, tx *gorm.DB) ([]types.TagCount, error) {
	return sr.countsBy(ctx, tx, "style")
}

func (sr *summaryRepo) CountsByLength(ctx context.Context, tx *gorm.DB) ([]types.TagCount, error) {
	return sr.countsBy(ctx, tx, "length")
}

// countsBy groups on a fixed column name. Only called with "style" and
// "length"; never with caller-supplied input.
func (sr *summaryRepo) countsBy(ctx context.Context, tx *gorm.DB, column string) ([]types.TagCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var rows []types.TagCount
	if err := transaction.WithContext(ctx).
		Model(&types.Summary{}).
		Select(column + ` AS tag, count(*) AS count`).
		Group(column).
		Order(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
