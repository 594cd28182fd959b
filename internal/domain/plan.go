package domain

import "time"

// Plan codes
const (
	PlanFree       = "FREE"
	PlanBasic      = "BASIC"
	PlanPro        = "PRO"
	PlanEnterprise = "ENTERPRISE"
)

// Plan is a named pricing/feature tier. Seeded by migration; immutable
// afterwards except for admin-driven activation toggles.
type Plan struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code              string    `gorm:"column:code;uniqueIndex;size:32" json:"code"`
	Name              string    `gorm:"column:name;size:100" json:"name"`
	MonthlyPricePaise int       `gorm:"column:monthly_price_paise" json:"monthly_price_paise"`
	Currency          string    `gorm:"column:currency;size:3;default:INR" json:"currency"`
	Active            bool      `gorm:"column:active;default:true" json:"active"`
	Public            bool      `gorm:"column:public;default:true" json:"public"`
	DisplayOrder      int       `gorm:"column:display_order;default:0" json:"display_order"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// Payable reports whether the plan can be purchased
func (p *Plan) Payable() bool {
	return p.MonthlyPricePaise > 0
}
