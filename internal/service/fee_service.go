package service

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
)

// FeeService manages fee heads. The whole module is gated on fees.enabled.
type FeeService struct {
	repo *repository.FeeRepository
}

// NewFeeService creates a new FeeService
func NewFeeService(repo *repository.FeeRepository) *FeeService {
	return &FeeService{repo: repo}
}

// Create creates a fee head
func (s *FeeService) Create(ctx context.Context, tenantID string, req *domain.CreateFeeHeadRequest) (*domain.FeeHead, error) {
	head := &domain.FeeHead{
		TenantID:  tenantID,
		Name:      req.Name,
		Amount:    req.Amount,
		Recurring: req.Recurring,
	}
	if err := s.repo.Create(ctx, head); err != nil {
		return nil, err
	}
	return head, nil
}

// List lists the tenant's fee heads
func (s *FeeService) List(ctx context.Context, tenantID string) ([]domain.FeeHead, error) {
	return s.repo.ListByTenantID(ctx, tenantID)
}
