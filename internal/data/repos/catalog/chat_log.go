package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type ChatLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.ChatLog) ([]*types.ChatLog, error)
	GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.ChatLog, error)
	DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error

	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	// CountCanned counts messages whose trimmed, lowercased text equals any
	// suggestion text. The comparison happens DB-side so the full log set is
	// never loaded into memory.
	CountCanned(ctx context.Context, tx *gorm.DB) (int64, error)
	CountsByDay(ctx context.Context, tx *gorm.DB) ([]types.DayCount, error)
}

type chatLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatLogRepo(db *gorm.DB, baseLog *logger.Logger) ChatLogRepo {
	return &chatLogRepo{db: db, log: baseLog.With("repo", "ChatLogRepo")}
}

func (cr *chatLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.ChatLog) ([]*types.ChatLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(logs) == 0 {
		return []*types.ChatLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (cr *chatLogRepo) GetByBookIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.ChatLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.ChatLog
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

func (cr *chatLogRepo) DeleteByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&types.ChatLog{}).Error
}

func (cr *chatLogRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChatLog{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *chatLogRepo) CountCanned(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ChatLog{}).
		Where(`lower(trim(message)) IN (SELECT lower(trim(text)) FROM suggestion)`).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *chatLogRepo) CountsByDay(ctx context.Context, tx *gorm.DB) ([]types.DayCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var rows []types.DayCount
	if err := transaction.WithContext(ctx).
		Model(&types.ChatLog{}).
		Select(`to_char(created_at, 'YYYY-MM-DD') AS day, count(*) AS count`).
		Group("day").
		Order("day").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
