package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// PaymentRepository handles payment-order persistence
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByProviderOrderID returns a payment by the provider's order id,
// or nil when absent
func (r *PaymentRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).Where("provider_order_id = ?", providerOrderID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MarkPaid transitions a payment to paid with a single conditional
// UPDATE. Returns false when the row was already paid, so a concurrent
// duplicate webhook delivery can win at most once.
func (r *PaymentRepository) MarkPaid(ctx context.Context, providerOrderID, providerPaymentID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("provider_order_id = ? AND status <> ?", providerOrderID, domain.PaymentPaid).
		Updates(map[string]interface{}{
			"status":              domain.PaymentPaid,
			"provider_payment_id": providerPaymentID,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFailed records a terminal failure with the provider's description.
// Paid and failed are both terminal, so only a payment still in created
// can fail. Returns false when the row had already settled.
func (r *PaymentRepository) MarkFailed(ctx context.Context, providerOrderID, reason string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("provider_order_id = ? AND status = ?", providerOrderID, domain.PaymentCreated).
		Updates(map[string]interface{}{
			"status":      domain.PaymentFailed,
			"fail_reason": reason,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByTenantID lists payments for a tenant with pagination
func (r *PaymentRepository) ListByTenantID(ctx context.Context, tenantID string, page, perPage int) ([]domain.Payment, int64, error) {
	var payments []domain.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Payment{}).Where("tenant_id = ?", tenantID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&payments).Error

	return payments, total, err
}
