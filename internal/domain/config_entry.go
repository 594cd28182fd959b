package domain

import "time"

// ConfigScope is the granularity a config row applies at
type ConfigScope string

const (
	ScopeTenant ConfigScope = "TENANT"
	ScopeBranch ConfigScope = "BRANCH"
)

// ConfigEntry is one tenant- or branch-scoped configuration value.
// BranchID is zero for TENANT scope; keeping it non-nullable makes the
// composite unique index usable for an atomic upsert.
// Rows are never deleted: the store is upsert-only and auditable via
// UpdatedBy/UpdatedAt.
type ConfigEntry struct {
	ID        int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  string      `gorm:"column:tenant_id;size:36;uniqueIndex:idx_config_identity" json:"tenant_id"`
	ConfigKey string      `gorm:"column:config_key;size:100;uniqueIndex:idx_config_identity" json:"config_key"`
	Scope     ConfigScope `gorm:"column:scope;size:10;uniqueIndex:idx_config_identity" json:"scope"`
	BranchID  int64       `gorm:"column:branch_id;default:0;uniqueIndex:idx_config_identity" json:"branch_id,omitempty"`
	Value     string      `gorm:"column:value;size:1000" json:"value"`
	ValueType string      `gorm:"column:value_type;size:10" json:"value_type"`
	UpdatedBy string      `gorm:"column:updated_by;size:64" json:"updated_by"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ConfigEntry) TableName() string {
	return "config_entries"
}

// ConfigUpsertRequest is one key/value write
type ConfigUpsertRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Scope    string `json:"scope" binding:"omitempty,oneof=TENANT BRANCH"`
	BranchID int64  `json:"branch_id"`
}

// ConfigBatchUpsertRequest applies several writes in one transaction
type ConfigBatchUpsertRequest struct {
	Entries  []ConfigKeyValue `json:"entries" binding:"required,min=1,dive"`
	Scope    string           `json:"scope" binding:"omitempty,oneof=TENANT BRANCH"`
	BranchID int64            `json:"branch_id"`
}

// ConfigKeyValue is a single key/value pair in a batch write
type ConfigKeyValue struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}
