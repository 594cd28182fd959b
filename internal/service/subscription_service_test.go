package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeCache is an in-memory cache.Service recording invalidations
type fakeCache struct {
	store       map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := f.store[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = data
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func (f *fakeCache) GetSubscription(ctx context.Context, tenantID string, dest interface{}) error {
	return f.Get(ctx, cache.PrefixSubscription+tenantID, dest)
}

func (f *fakeCache) SetSubscription(ctx context.Context, tenantID string, value interface{}) error {
	return f.Set(ctx, cache.PrefixSubscription+tenantID, value, cache.TTLSubscription)
}

func (f *fakeCache) InvalidateSubscription(ctx context.Context, tenantID string) error {
	f.invalidated = append(f.invalidated, tenantID)
	return f.Delete(ctx, cache.PrefixSubscription+tenantID)
}

type subscriptionFixture struct {
	db     *gorm.DB
	svc    *SubscriptionService
	config *ConfigService
}

func setupSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()
	db := setupTestDB(t, &domain.Plan{}, &domain.Subscription{}, &domain.ConfigEntry{})

	plans := []domain.Plan{
		{Code: domain.PlanFree, Name: "Free", MonthlyPricePaise: 0, Currency: "INR", Active: true, Public: true, DisplayOrder: 1},
		{Code: domain.PlanBasic, Name: "Basic", MonthlyPricePaise: 149900, Currency: "INR", Active: true, Public: true, DisplayOrder: 2},
		{Code: domain.PlanEnterprise, Name: "Enterprise", MonthlyPricePaise: 1999900, Currency: "INR", Active: true, Public: false, DisplayOrder: 4},
	}
	require.NoError(t, db.Create(&plans).Error)

	configSvc := NewConfigService(repository.NewConfigRepository(db), db)
	svc := NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		NewPlanConfigApplier(configSvc),
		nil,
	)
	return &subscriptionFixture{db: db, svc: svc, config: configSvc}
}

func TestProvisionStartsFreeTrial(t *testing.T) {
	f := setupSubscriptionFixture(t)

	sub, err := f.svc.Provision(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionTrialing, sub.Status)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, domain.PlanFree, sub.Plan.Code)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, TrialDays), *sub.TrialEndsAt, time.Minute)
}

func TestGetCurrentMissingSubscription(t *testing.T) {
	f := setupSubscriptionFixture(t)

	_, err := f.svc.GetCurrent(context.Background(), "ghost")
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeSubscriptionNotFound, appErr.Code)
}

func TestCurrentForMissingSubscription(t *testing.T) {
	f := setupSubscriptionFixture(t)

	sub, plan, err := f.svc.CurrentFor(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Nil(t, plan)
}

func TestListPlansPublicOnly(t *testing.T) {
	f := setupSubscriptionFixture(t)

	plans, err := f.svc.ListPlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2, "non-public plans stay hidden")
	assert.Equal(t, domain.PlanFree, plans[0].Code)
	assert.Equal(t, domain.PlanBasic, plans[1].Code)
}

func TestChangePlanActivatesAndAppliesDefaults(t *testing.T) {
	f := setupSubscriptionFixture(t)
	ctx := context.Background()
	_, err := f.svc.Provision(ctx, "t1")
	require.NoError(t, err)

	resp, err := f.svc.ChangePlan(ctx, "t1", domain.PlanBasic)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanBasic, resp.Plan)
	assert.Equal(t, domain.SubscriptionActive, resp.Status)
	assert.Empty(t, resp.TrialEndsAt)

	enabled, err := f.config.FlagEnabled(ctx, "t1", "exams.enabled")
	require.NoError(t, err)
	assert.True(t, enabled, "plan defaults follow the plan change")
}

func TestChangePlanUnknownPlan(t *testing.T) {
	f := setupSubscriptionFixture(t)
	ctx := context.Background()
	_, err := f.svc.Provision(ctx, "t1")
	require.NoError(t, err)

	_, err = f.svc.ChangePlan(ctx, "t1", "GOLD")
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodePlanNotFound, appErr.Code)
}

func TestExpireTrials(t *testing.T) {
	f := setupSubscriptionFixture(t)
	ctx := context.Background()

	_, err := f.svc.Provision(ctx, "ended")
	require.NoError(t, err)
	_, err = f.svc.Provision(ctx, "running")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Model(&domain.Subscription{}).
		Where("tenant_id = ?", "ended").
		Update("trial_ends_at", past).Error)

	expired, err := f.svc.ExpireTrials(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	var sub domain.Subscription
	require.NoError(t, f.db.Where("tenant_id = ?", "ended").First(&sub).Error)
	assert.Equal(t, domain.SubscriptionPastDue, sub.Status)

	sub = domain.Subscription{}
	require.NoError(t, f.db.Where("tenant_id = ?", "running").First(&sub).Error)
	assert.Equal(t, domain.SubscriptionTrialing, sub.Status)

	// Second sweep finds nothing.
	expired, err = f.svc.ExpireTrials(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestExpireTrialsInvalidatesCache(t *testing.T) {
	f := setupSubscriptionFixture(t)
	fc := newFakeCache()
	svc := NewSubscriptionService(
		repository.NewSubscriptionRepository(f.db),
		repository.NewPlanRepository(f.db),
		NewPlanConfigApplier(f.config),
		fc,
	)
	ctx := context.Background()

	_, err := svc.Provision(ctx, "ended")
	require.NoError(t, err)

	// Warm the cache the way the enforcement path does.
	sub, _, err := svc.CurrentFor(ctx, "ended")
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionTrialing, sub.Status)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Model(&domain.Subscription{}).
		Where("tenant_id = ?", "ended").
		Update("trial_ends_at", past).Error)

	expired, err := svc.ExpireTrials(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Contains(t, fc.invalidated, "ended")

	// The next status lookup sees past_due, not the stale cached trial.
	sub, _, err = svc.CurrentFor(ctx, "ended")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPastDue, sub.Status)
}
