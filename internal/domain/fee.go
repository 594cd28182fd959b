package domain

import "time"

// FeeHead is one chargeable fee category (tuition, transport, ...).
// The fees module is feature-gated on fees.enabled.
type FeeHead struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID  string    `gorm:"column:tenant_id;index;size:36" json:"tenant_id"`
	Name      string    `gorm:"column:name;size:200" json:"name"`
	Amount    int       `gorm:"column:amount" json:"amount"` // paise
	Recurring bool      `gorm:"column:recurring;default:false" json:"recurring"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FeeHead) TableName() string {
	return "fee_heads"
}

// CreateFeeHeadRequest creates one fee head
type CreateFeeHeadRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Amount    int    `json:"amount" binding:"required,min=0"`
	Recurring bool   `json:"recurring"`
}
