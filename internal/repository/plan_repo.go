package repository

import (
	"context"
	"errors"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// PlanRepository handles plan catalog persistence
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByCode returns a plan by code, or nil when absent
func (r *PlanRepository) FindByCode(ctx context.Context, code string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// FindByID returns a plan by id, or nil when absent
func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListPublic returns publicly listed active plans in display order
func (r *PlanRepository) ListPublic(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := r.db.WithContext(ctx).
		Where("active = ? AND public = ?", true, true).
		Order("display_order ASC").
		Find(&plans).Error
	return plans, err
}
