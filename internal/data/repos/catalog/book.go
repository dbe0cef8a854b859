package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// ListBooksOptions controls list filtering, ordering and pagination. Sort
// columns are allow-listed; anything else falls back to created_at.
type ListBooksOptions struct {
	Search  string
	Status  string
	SortBy  string
	SortDir string
	Offset  int
	Limit   int
}

type BookRepo interface {
	Create(ctx context.Context, tx *gorm.DB, books []*types.Book) ([]*types.Book, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Book, error)
	List(ctx context.Context, tx *gorm.DB, opts ListBooksOptions) ([]*types.Book, int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, fields map[string]any) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, status string) error
	UpdateCover(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, bucketKey, coverURL string) error
	Delete(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, log: baseLog.With("repo", "BookRepo")}
}

func (br *bookRepo) Create(ctx context.Context, tx *gorm.DB, books []*types.Book) ([]*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(books) == 0 {
		return []*types.Book{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (br *bookRepo) GetByIDs(ctx context.Context, tx *gorm.DB, bookIDs []uuid.UUID) ([]*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.Book
	if len(bookIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", bookIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

var bookSortColumns = map[string]string{
	"title":      "title",
	"author":     "author",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (br *bookRepo) List(ctx context.Context, tx *gorm.DB, opts ListBooksOptions) ([]*types.Book, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	q := transaction.WithContext(ctx).Model(&types.Book{})
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("title ILIKE ? OR author ILIKE ?", like, like)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := bookSortColumns[strings.ToLower(opts.SortBy)]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(opts.SortDir, "asc") {
		dir = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var results []*types.Book
	if err := q.
		Order(fmt.Sprintf("%s %s", col, dir)).
		Offset(opts.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (br *bookRepo) UpdateFields(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("id = ?", bookID).
		Updates(fields).Error
}

func (br *bookRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("id = ?", bookID).
		Update("status", status).Error
}

func (br *bookRepo) UpdateCover(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, bucketKey, coverURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"cover_bucket_key": bucketKey,
			"cover_url":        coverURL,
		}).Error
}

func (br *bookRepo) Delete(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", bookID).
		Delete(&types.Book{}).Error
}
