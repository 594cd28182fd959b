package service

import (
	"context"
	"time"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/pkg/cache"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
)

// TrialDays is the trial period granted at tenant provisioning
const TrialDays = 14

// cachedSubscription is the short-TTL projection the enforcement
// middleware needs on every request
type cachedSubscription struct {
	PlanID   int64  `json:"plan_id"`
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
	Status   string `json:"status"`
}

// SubscriptionService owns the subscription lifecycle outside the
// webhook path: provisioning, plan catalog, admin plan changes and the
// trial-expiry sweep.
type SubscriptionService struct {
	subRepo    *repository.SubscriptionRepository
	planRepo   *repository.PlanRepository
	planConfig *PlanConfigApplier
	cache      cache.Service // nil-safe
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	planConfig *PlanConfigApplier,
	cacheService cache.Service,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:    subRepo,
		planRepo:   planRepo,
		planConfig: planConfig,
		cache:      cacheService,
	}
}

// Provision creates the tenant's one subscription: trialing on the FREE
// plan with a 14-day trial. Called exactly once per tenant.
func (s *SubscriptionService) Provision(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	plan, err := s.planRepo.FindByCode(ctx, domain.PlanFree)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.ErrPlanNotFound(domain.PlanFree)
	}

	now := time.Now()
	trialEnds := now.AddDate(0, 0, TrialDays)
	sub := &domain.Subscription{
		TenantID:    tenantID,
		PlanID:      plan.ID,
		Status:      domain.SubscriptionTrialing,
		TrialEndsAt: &trialEnds,
		StartedAt:   now,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	sub.Plan = plan
	return sub, nil
}

// CurrentFor returns the subscription and plan for a tenant, consulting
// the short-TTL cache first. Returns (nil, nil, nil) when the tenant has
// no subscription. This is the lookup the enforcement middleware runs on
// every request.
func (s *SubscriptionService) CurrentFor(ctx context.Context, tenantID string) (*domain.Subscription, *domain.Plan, error) {
	if s.cache != nil {
		var cached cachedSubscription
		if err := s.cache.GetSubscription(ctx, tenantID, &cached); err == nil {
			sub := &domain.Subscription{TenantID: tenantID, PlanID: cached.PlanID, Status: cached.Status}
			plan := &domain.Plan{ID: cached.PlanID, Code: cached.PlanCode, Name: cached.PlanName}
			return sub, plan, nil
		}
	}

	sub, err := s.subRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, nil
	}
	plan := sub.Plan
	if plan == nil {
		plan, err = s.planRepo.FindByID(ctx, sub.PlanID)
		if err != nil {
			return nil, nil, err
		}
	}

	if s.cache != nil && plan != nil {
		_ = s.cache.SetSubscription(ctx, tenantID, cachedSubscription{
			PlanID:   plan.ID,
			PlanCode: plan.Code,
			PlanName: plan.Name,
			Status:   sub.Status,
		})
	}
	return sub, plan, nil
}

// GetCurrent returns the API view of a tenant's subscription
func (s *SubscriptionService) GetCurrent(ctx context.Context, tenantID string) (*domain.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, common.ErrSubscriptionNotFound()
	}

	plan := sub.Plan
	if plan == nil {
		if plan, err = s.planRepo.FindByID(ctx, sub.PlanID); err != nil {
			return nil, err
		}
	}

	resp := &domain.SubscriptionResponse{
		Status:    sub.Status,
		StartedAt: sub.StartedAt.Format(time.RFC3339),
	}
	if plan != nil {
		resp.Plan = plan.Code
		resp.PlanName = plan.Name
	}
	if sub.TrialEndsAt != nil {
		resp.TrialEndsAt = sub.TrialEndsAt.Format(time.RFC3339)
	}
	if sub.EndsAt != nil {
		resp.EndsAt = sub.EndsAt.Format(time.RFC3339)
	}
	return resp, nil
}

// ListPlans returns the public plan catalog
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.ListPublic(ctx)
}

// ChangePlan is the admin-driven plan change. It activates the target
// plan directly, then applies the plan's config defaults (logged-only on
// failure, the plan change itself is already committed).
func (s *SubscriptionService) ChangePlan(ctx context.Context, tenantID, planCode string) (*domain.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, common.ErrSubscriptionNotFound()
	}

	plan, err := s.planRepo.FindByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.ErrPlanNotFound(planCode)
	}
	if !plan.Active {
		return nil, common.ErrBadRequest("Plan is not active: " + planCode)
	}

	sub.PlanID = plan.ID
	sub.Status = domain.SubscriptionActive
	sub.TrialEndsAt = nil
	sub.EndsAt = nil
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.planConfig.ApplyLogged(ctx, tenantID, plan.Code)
	s.invalidateCache(ctx, tenantID)

	pkglogger.GetLogger().Info().
		Str("tenant_id", tenantID).
		Str("plan", plan.Code).
		Msg("subscription plan changed")

	sub.Plan = plan
	return s.GetCurrent(ctx, tenantID)
}

// ExpireTrials flips ended trials to past_due and drops the cached
// status of every affected tenant, so the enforcement gate sees the new
// state on the next request. Periodically invoked by the trial sweeper.
func (s *SubscriptionService) ExpireTrials(ctx context.Context) (int64, error) {
	tenantIDs, err := s.subRepo.ExpireTrials(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	for _, tenantID := range tenantIDs {
		s.invalidateCache(ctx, tenantID)
	}
	return int64(len(tenantIDs)), nil
}

func (s *SubscriptionService) invalidateCache(ctx context.Context, tenantID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateSubscription(ctx, tenantID)
	}
}
