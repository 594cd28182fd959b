package repository

import (
	"context"
	"errors"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// TenantRepository handles tenant persistence
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// FindByID returns a tenant by id, or nil when absent
func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// SubdomainAvailable reports whether no tenant uses the subdomain yet
func (r *TenantRepository) SubdomainAvailable(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Tenant{}).
		Where("subdomain = ?", subdomain).Count(&count).Error
	return count == 0, err
}

// Create creates a tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}
