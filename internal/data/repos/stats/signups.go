package stats

import (
	"context"

	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// SignupRepo reads signup aggregates. Reader accounts live in the identity
// provider's schema, not in tables this service owns, so the grouping is
// delegated to a database-side function rather than queried directly.
type SignupRepo interface {
	SignupsByMonth(ctx context.Context, tx *gorm.DB) ([]types.MonthCount, error)
}

type signupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSignupRepo(db *gorm.DB, baseLog *logger.Logger) SignupRepo {
	return &signupRepo{db: db, log: baseLog.With("repo", "SignupRepo")}
}

func (sr *signupRepo) SignupsByMonth(ctx context.Context, tx *gorm.DB) ([]types.MonthCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var rows []types.MonthCount
	if err := transaction.WithContext(ctx).
		Raw(`SELECT month, count FROM signups_by_month() ORDER BY month`).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
