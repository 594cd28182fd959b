package domain

import "time"

// Payment statuses. Transitions are monotonic: created -> paid | failed.
const (
	PaymentCreated  = "created"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment is one append-only payment-order record. ProviderOrderID is the
// lookup key the provider webhook matches against. Created by the order
// service, mutated only by the webhook processor; never hard-deleted.
type Payment struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TenantID          string    `gorm:"column:tenant_id;index;size:36" json:"tenant_id"`
	SubscriptionID    int64     `gorm:"column:subscription_id;index" json:"subscription_id"`
	PlanID            int64     `gorm:"column:plan_id" json:"plan_id"`
	Provider          string    `gorm:"column:provider;size:32" json:"provider"`
	ProviderOrderID   string    `gorm:"column:provider_order_id;uniqueIndex;size:64" json:"provider_order_id"`
	ProviderPaymentID string    `gorm:"column:provider_payment_id;size:64" json:"provider_payment_id,omitempty"`
	Amount            int       `gorm:"column:amount" json:"amount"`
	Currency          string    `gorm:"column:currency;size:3;default:INR" json:"currency"`
	Status            string    `gorm:"column:status;size:16;default:created" json:"status"`
	FailReason        string    `gorm:"column:fail_reason;size:500" json:"fail_reason,omitempty"`
	Metadata          string    `gorm:"column:metadata;type:text" json:"metadata,omitempty"` // JSON
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// CreateOrderRequest is sent by the admin app to start a plan purchase
type CreateOrderRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// CreateOrderResponse carries what the checkout widget needs
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
}
