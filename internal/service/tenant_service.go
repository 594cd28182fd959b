package service

import (
	"context"
	"time"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TenantService handles school tenant provisioning
type TenantService struct {
	tenantRepo *repository.TenantRepository
	userRepo   *repository.UserRepository
	subs       *SubscriptionService
	db         *gorm.DB
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo *repository.TenantRepository,
	userRepo *repository.UserRepository,
	subs *SubscriptionService,
	db *gorm.DB,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		subs:       subs,
		db:         db,
	}
}

// Provision creates a tenant, its owner account and its one trialing
// subscription in a single transaction
func (s *TenantService) Provision(ctx context.Context, req *domain.ProvisionRequest) (*domain.ProvisionResponse, error) {
	available, err := s.tenantRepo.SubdomainAvailable(ctx, req.Subdomain)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, common.ErrBadRequest("Subdomain is already taken")
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrBadRequest("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Active:    true,
	}
	owner := &domain.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        req.OwnerEmail,
		PasswordHash: string(hash),
		Name:         req.Name + " Owner",
		Role:         domain.RoleOwner,
		Active:       true,
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	}); err != nil {
		return nil, err
	}

	sub, err := s.subs.Provision(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().
		Str("tenant_id", tenant.ID).
		Str("subdomain", tenant.Subdomain).
		Msg("tenant provisioned")

	resp := &domain.ProvisionResponse{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		Plan:      domain.PlanFree,
		Status:    sub.Status,
	}
	if sub.TrialEndsAt != nil {
		resp.TrialEndsAt = sub.TrialEndsAt.Format(time.RFC3339)
	}
	return resp, nil
}
