package leads

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/ostrauer/briefshelf-backend/internal/domain"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// ListLeadsOptions controls lead list pagination. Duplicates are excluded
// unless IncludeDuplicates is set; every campaign metric uses the same
// non-duplicate filter.
type ListLeadsOptions struct {
	Search            string
	IncludeDuplicates bool
	Offset            int
	Limit             int
}

// CampaignCounter is the slice of a lead repo the campaign stats service
// consumes. Counts are DB-side aggregations; full row sets are never loaded.
type CampaignCounter interface {
	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveWithWebsite(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveWithEmail(ctx context.Context, tx *gorm.DB) (int64, error)
	CountContacted(ctx context.Context, tx *gorm.DB) (int64, error)
	CountExported(ctx context.Context, tx *gorm.DB) (int64, error)
	EmailStatusCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	// CampaignCountsView reads the precomputed stats function when the
	// database provides one. Callers treat SQLSTATE 42883 as "capability
	// absent" and fall back to the direct count queries above.
	CampaignCountsView(ctx context.Context, tx *gorm.DB) (*types.CampaignCounts, error)
}

type DentistLeadRepo interface {
	CampaignCounter

	Create(ctx context.Context, tx *gorm.DB, rows []*types.DentistLead) ([]*types.DentistLead, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DentistLead, error)
	List(ctx context.Context, tx *gorm.DB, opts ListLeadsOptions) ([]*types.DentistLead, int64, error)
	SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error
	DistinctPostalCodes(ctx context.Context, tx *gorm.DB) (int64, error)
}

type dentistLeadRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDentistLeadRepo(db *gorm.DB, baseLog *logger.Logger) DentistLeadRepo {
	return &dentistLeadRepo{db: db, log: baseLog.With("repo", "DentistLeadRepo")}
}

func (dr *dentistLeadRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DentistLead) ([]*types.DentistLead, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(rows) == 0 {
		return []*types.DentistLead{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (dr *dentistLeadRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DentistLead, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DentistLead
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

func (dr *dentistLeadRepo) List(ctx context.Context, tx *gorm.DB, opts ListLeadsOptions) ([]*types.DentistLead, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	q := transaction.WithContext(ctx).Model(&types.DentistLead{})
	if !opts.IncludeDuplicates {
		q = q.Where("duplicate = ?", false)
	}
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("practice_name ILIKE ? OR email ILIKE ? OR city ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var results []*types.DentistLead
	if err := q.
		Order("created_at DESC").
		Offset(opts.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (dr *dentistLeadRepo) SetDuplicate(ctx context.Context, tx *gorm.DB, id uuid.UUID, duplicate bool) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DentistLead{}).
		Where("id = ?", id).
		Update("duplicate", duplicate).Error
}

func (dr *dentistLeadRepo) countActiveWhere(ctx context.Context, tx *gorm.DB, cond string, args ...any) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.DentistLead{}).
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

func (dr *dentistLeadRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	return dr.countActiveWhere(ctx, tx, "")
}

func (dr *dentistLeadRepo) CountActiveWithWebsite(ctx context.Context, tx *gorm.DB) (int64, error) {
	return dr.countActiveWhere(ctx, tx, "website IS NOT NULL AND website <> ''")
}

func (dr *dentistLeadRepo) CountActiveWithEmail(ctx context.Context, tx *gorm.DB) (int64, error) {
	return dr.countActiveWhere(ctx, tx, "email IS NOT NULL AND email <> ''")
}

func (dr *dentistLeadRepo) CountContacted(ctx context.Context, tx *gorm.DB) (int64, error) {
	return dr.countActiveWhere(ctx, tx, "first_contact_sent = ?", true)
}

func (dr *dentistLeadRepo) CountExported(ctx context.Context, tx *gorm.DB) (int64, error) {
	return dr.countActiveWhere(ctx, tx, "exported = ?", true)
}

func (dr *dentistLeadRepo) EmailStatusCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var rows []types.StatusCount
	if err := transaction.WithContext(ctx).
		Model(&types.DentistLead{}).
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

func (dr *dentistLeadRepo) DistinctPostalCodes(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DentistLead{}).
		Where("duplicate = ? AND postal_code IS NOT NULL AND postal_code <> ''", false).
		Distinct("postal_code").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (dr *dentistLeadRepo) CampaignCountsView(ctx context.Context, tx *gorm.DB) (*types.CampaignCounts, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var row types.CampaignCounts
	if err := transaction.WithContext(ctx).
		Raw(`SELECT total, with_website, with_email, contacted, exported FROM dentist_campaign_stats()`).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
