package repository

import (
	"context"
	"errors"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfigRepository handles config entry persistence
type ConfigRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ConfigRepository) WithTx(tx *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: tx}
}

// Find returns the entry for the exact (tenant, key, scope, branch) tuple,
// or nil when absent
func (r *ConfigRepository) Find(ctx context.Context, tenantID, key string, scope domain.ConfigScope, branchID int64) (*domain.ConfigEntry, error) {
	var entry domain.ConfigEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND config_key = ? AND scope = ? AND branch_id = ?", tenantID, key, scope, branchID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert atomically inserts or updates an entry keyed on the
// (tenant_id, config_key, scope, branch_id) unique index. Using the
// database's conflict clause avoids the lost-update race a
// find-then-write would have.
func (r *ConfigRepository) Upsert(ctx context.Context, entry *domain.ConfigEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"}, {Name: "config_key"}, {Name: "scope"}, {Name: "branch_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "updated_by", "updated_at"}),
	}).Create(entry).Error
}

// ListByTenant returns all rows for a tenant, optionally key-prefix filtered
func (r *ConfigRepository) ListByTenant(ctx context.Context, tenantID, prefix string) ([]domain.ConfigEntry, error) {
	var entries []domain.ConfigEntry
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if prefix != "" {
		query = query.Where("config_key LIKE ?", prefix+"%")
	}
	err := query.Order("config_key ASC").Find(&entries).Error
	return entries, err
}
