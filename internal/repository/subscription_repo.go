package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// SubscriptionRepository handles subscription persistence
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindByTenantID retrieves a subscription with its plan preloaded,
// or nil when the tenant has none
func (r *SubscriptionRepository) FindByTenantID(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).Preload("Plan").Where("tenant_id = ?", tenantID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Update updates an existing subscription
func (r *SubscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// ExpireTrials flips trialing subscriptions whose trial has ended to
// past_due and returns the affected tenant ids so the caller can drop
// their cached status. The UPDATE re-checks the status, so a concurrent
// activation between the two statements wins.
func (r *SubscriptionRepository) ExpireTrials(ctx context.Context, now time.Time) ([]string, error) {
	var tenantIDs []string
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", domain.SubscriptionTrialing, now).
		Pluck("tenant_id", &tenantIDs).Error
	if err != nil || len(tenantIDs) == 0 {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("tenant_id IN ? AND status = ?", tenantIDs, domain.SubscriptionTrialing).
		Update("status", domain.SubscriptionPastDue)
	if res.Error != nil {
		return nil, res.Error
	}
	return tenantIDs, nil
}
