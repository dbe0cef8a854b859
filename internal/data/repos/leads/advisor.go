package leads

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

type AdvisorLeadRepo interface {
	CampaignCounter

	Create(ctx context.Context, tx *gorm.DB, rows []*types.AdvisorLead) ([]*types.AdvisorLead, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AdvisorLead, error)
	List(ctx context.Context, tx *gorm.DB, opts ListLeadsOptions) ([]*types.AdvisorLead, int64, error)
	SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error
}

type advisorLeadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdvisorLeadRepo(db *gorm.DB, baseLog *logger.Logger) AdvisorLeadRepo {
	return &advisorLeadRepo{db: db, log: baseLog.With("repo", "AdvisorLeadRepo")}
}

func (ar *advisorLeadRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AdvisorLead) ([]*types.AdvisorLead, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(rows) == 0 {
		return []*types.AdvisorLead{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (ar *advisorLeadRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AdvisorLead, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.AdvisorLead
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *advisorLeadRepo) List(ctx context.Context, tx *gorm.DB, opts ListLeadsOptions) ([]*types.AdvisorLead, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	q := transaction.WithContext(ctx).Model(&types.AdvisorLead{})
	if !opts.IncludeDuplicates {
		q = q.Where("duplicate = ?", false)
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("firm_name ILIKE ? OR email ILIKE ? OR last_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var results []*types.AdvisorLead
	if err := q.
		Order("created_at DESC").
		Offset(opts.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (ar *advisorLeadRepo) SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AdvisorLead{}).
		Where("id = ?", id).
		Update("duplicate", duplicate).Error
}

func (ar *advisorLeadRepo) countActiveWhere(ctx context.Context, tx *gorm.DB, cond string, args ...any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.AdvisorLead{}).
		Where("duplicate = ?", false)
	if cond != "" {
		q = q.Where(cond, args...)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *advisorLeadRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	return ar.countActiveWhere(ctx, tx, "")
}

func (ar *advisorLeadRepo) CountActiveWithWebsite(ctx context.Context, tx *gorm.DB) (int64, error) {
	return ar.countActiveWhere(ctx, tx, "website IS NOT NULL AND website <> ''")
}

func (ar *advisorLeadRepo) CountActiveWithEmail(ctx context.Context, tx *gorm.DB) (int64, error) {
	return ar.countActiveWhere(ctx, tx, "email IS NOT NULL AND email <> ''")
}

func (ar *advisorLeadRepo) CountContacted(ctx context.Context, tx *gorm.DB) (int64, error) {
	return ar.countActiveWhere(ctx, tx, "first_contact_sent = ?", true)
}

func (ar *advisorLeadRepo) CountExported(ctx context.Context, tx *gorm.DB) (int64, error) {
	return ar.countActiveWhere(ctx, tx, "exported = ?", true)
}

func (ar *advisorLeadRepo) EmailStatusCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var rows []types.StatusCount
	if err := transaction.WithContext(ctx).
		Model(&types.AdvisorLead{}).
		Select(`coalesce(email_status, '') AS status, count(*) AS count`).
		Where("duplicate = ?", false).
		Group("email_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] += r.Count
	}
	return out, nil
}

func (ar *advisorLeadRepo) CampaignCountsView(ctx context.Context, tx *gorm.DB) (*types.CampaignCounts, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var row types.CampaignCounts
	if err := transaction.WithContext(ctx).
		Raw(`SELECT total, with_website, with_email, contacted, exported FROM advisor_campaign_stats()`).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
