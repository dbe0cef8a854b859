package leads

import (
	"context"

	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type PostalCodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PostalCode) ([]*types.PostalCode, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type postalCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostalCodeRepo(db *gorm.DB, baseLog *logger.Logger) PostalCodeRepo {
	return &postalCodeRepo{db: db, log: baseLog.With("repo", "PostalCodeRepo")}
}

func (pr *postalCodeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PostalCode) ([]*types.PostalCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(rows) == 0 {
		return []*types.PostalCode{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (pr *postalCodeRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PostalCode{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
