package domain

import "time"

// Tenant is one customer organization. All data is partitioned by TenantID.
type Tenant struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name      string    `gorm:"column:name;size:200" json:"name"`
	Subdomain string    `gorm:"column:subdomain;uniqueIndex;size:63" json:"subdomain"`
	Active    bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// ProvisionRequest is the request body for creating a new school tenant
type ProvisionRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Subdomain  string `json:"subdomain" binding:"required,min=3,max=50"`
	OwnerEmail string `json:"owner_email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

// ProvisionResponse is returned after tenant provisioning
type ProvisionResponse struct {
	TenantID    string `json:"tenant_id"`
	Subdomain   string `json:"subdomain"`
	Plan        string `json:"plan"`
	Status      string `json:"status"`
	TrialEndsAt string `json:"trial_ends_at"`
}
