package domain

import "time"

// Subscription statuses
const (
	SubscriptionTrialing  = "trialing"
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Subscription is a tenant's subscription to a plan. Exactly one row per
// tenant, enforced by the unique index on TenantID. Never deleted.
type Subscription struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID    string     `gorm:"column:tenant_id;uniqueIndex;size:36" json:"tenant_id"`
	PlanID      int64      `gorm:"column:plan_id;index" json:"plan_id"`
	Status      string     `gorm:"column:status;size:16;default:trialing" json:"status"`
	TrialEndsAt *time.Time `gorm:"column:trial_ends_at" json:"trial_ends_at,omitempty"`
	StartedAt   time.Time  `gorm:"column:started_at" json:"started_at"`
	EndsAt      *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Inactive reports whether the subscription status blocks non-exempt routes
func (s *Subscription) Inactive() bool {
	switch s.Status {
	case SubscriptionPastDue, SubscriptionSuspended, SubscriptionCancelled:
		return true
	}
	return false
}

// SubscriptionResponse is the API shape for subscription info
type SubscriptionResponse struct {
	Plan        string `json:"plan"`
	PlanName    string `json:"plan_name"`
	Status      string `json:"status"`
	TrialEndsAt string `json:"trial_ends_at,omitempty"`
	StartedAt   string `json:"started_at"`
	EndsAt      string `json:"ends_at,omitempty"`
}

// ChangePlanRequest for admin-driven plan changes
type ChangePlanRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}
