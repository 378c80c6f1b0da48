package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"legalis-admin/internal/domain"
)

type SuspensionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Suspension, error)
	Lift(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error
}

type GormSuspensionRepo struct {
	db *gorm.DB
}

func NewGormSuspensionRepo(db *gorm.DB) *GormSuspensionRepo {
	return &GormSuspensionRepo{db: db}
}

func (r *GormSuspensionRepo) GetByID(ctx context.Context, id string) (*domain.Suspension, error) {
	var model SuspensionModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return suspensionModelToDomain(&model), nil
}

// Lift marks a suspension as lifted, stamping who lifted it and why.
func (r *GormSuspensionRepo) Lift(ctx context.Context, id string, liftedBy string, reason string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&SuspensionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        domain.SuspensionStatusLifted,
			"lifted_at":     at,
			"lifted_by":     liftedBy,
			"lifted_reason": reason,
			"updated_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
