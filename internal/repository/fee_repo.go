package repository

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// FeeRepository handles fee head persistence
type FeeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(db *gorm.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// Create creates a fee head
func (r *FeeRepository) Create(ctx context.Context, head *domain.FeeHead) error {
	return r.db.WithContext(ctx).Create(head).Error
}

// ListByTenantID lists fee heads of a tenant
func (r *FeeRepository) ListByTenantID(ctx context.Context, tenantID string) ([]domain.FeeHead, error) {
	var heads []domain.FeeHead
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("name ASC").Find(&heads).Error
	return heads, err
}
