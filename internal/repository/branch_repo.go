package repository

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// BranchRepository handles branch persistence
type BranchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new BranchRepository
func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// Create creates a branch
func (r *BranchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

// ListByTenantID lists branches of a tenant
func (r *BranchRepository) ListByTenantID(ctx context.Context, tenantID string) ([]domain.Branch, error) {
	var branches []domain.Branch
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Order("created_at ASC").Find(&branches).Error
	return branches, err
}

// CountByTenantID counts branches of a tenant
func (r *BranchRepository) CountByTenantID(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Branch{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
