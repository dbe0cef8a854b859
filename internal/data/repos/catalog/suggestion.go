package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type SuggestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error)
	GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Suggestion, error)
	DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error
}

type suggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
	return &suggestionRepo{db: db, log: baseLog.With("repo", "SuggestionRepo")}
}

func (sr *suggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestions []*types.Suggestion) ([]*types.Suggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(suggestions) == 0 {
		return []*types.Suggestion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (sr *suggestionRepo) GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Suggestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Suggestion
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

func (sr *suggestionRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&types.Suggestion{}).Error
}
