package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"legalis-admin/internal/domain"
)

// AppealListParams filters and paginates appeal list queries. Search and
// status are applied in SQL before the count and the offset/limit, so a
// filter covers the whole table rather than the fetched page.
type AppealListParams struct {
	Status   *domain.AppealStatus
	Search   string
	Page     int
	PageSize int
}

// OptionalText is a tri-state column update: absent, set to a value, or
// set to NULL (Set with a nil Value).
type OptionalText struct {
	Set   bool
	Value *string
}

// AppealUpdate is the partial update applied by an admin decision. The
// review stamps are always written; the remaining fields only when present
// in the request.
type AppealUpdate struct {
	ReviewedBy      string
	ReviewedAt      time.Time
	Status          *domain.AppealStatus
	AdminNotes      OptionalText
	RejectionReason OptionalText
}

type AppealRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appeal, error)
	List(ctx context.Context, params AppealListParams) ([]domain.Appeal, int64, error)
	Update(ctx context.Context, id string, update AppealUpdate) error
	Delete(ctx context.Context, id string) error
}

type GormAppealRepo struct {
	db *gorm.DB
}

func NewGormAppealRepo(db *gorm.DB) *GormAppealRepo {
	return &GormAppealRepo{db: db}
}

func (r *GormAppealRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("suspension_appeals AS a").
		Select("a.*, u.full_name AS user_full_name, s.reason AS suspension_reason").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Joins("LEFT JOIN user_suspensions s ON s.id = a.suspension_id")
}

func (r *GormAppealRepo) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	var row appealRow
	err := r.joined(ctx).Where("a.id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return appealRowToDomain(&row), nil
}

func (r *GormAppealRepo) List(ctx context.Context, params AppealListParams) ([]domain.Appeal, int64, error) {
	query := r.joined(ctx)

	if params.Status != nil {
		query = query.Where("a.status = ?", *params.Status)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"a.appeal_reason ILIKE ? OR a.admin_notes ILIKE ? OR a.rejection_reason ILIKE ? OR u.full_name ILIKE ? OR s.reason ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	pageSize = min(pageSize, 100)

	var rows []appealRow
	err := query.
		Order("a.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	appeals := make([]domain.Appeal, 0, len(rows))
	for i := range rows {
		appeals = append(appeals, *appealRowToDomain(&rows[i]))
	}

	return appeals, total, nil
}

func (r *GormAppealRepo) Update(ctx context.Context, id string, update AppealUpdate) error {
	columns := map[string]any{
		"reviewed_by": update.ReviewedBy,
		"reviewed_at": update.ReviewedAt,
		"updated_at":  update.ReviewedAt,
	}
	if update.Status != nil {
		columns["status"] = *update.Status
	}
	if update.AdminNotes.Set {
		columns["admin_notes"] = update.AdminNotes.Value
	}
	if update.RejectionReason.Set {
		columns["rejection_reason"] = update.RejectionReason.Value
	}

	result := r.db.WithContext(ctx).
		Model(&AppealModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormAppealRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&AppealModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
