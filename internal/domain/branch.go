package domain

import "time"

// Branch is a sub-unit of a tenant (e.g. a campus) that may override
// tenant-level configuration.
type Branch struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  string    `gorm:"column:tenant_id;index;size:36" json:"tenant_id"`
	Name      string    `gorm:"column:name;size:200" json:"name"`
	Code      string    `gorm:"column:code;size:32" json:"code"`
	Address   string    `gorm:"column:address;size:500" json:"address,omitempty"`
	Active    bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}

// CreateBranchRequest creates a branch under the tenant
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Code    string `json:"code" binding:"required,max=32"`
	Address string `json:"address" binding:"max=500"`
}
