package service

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
)

// BranchService manages tenant branches (campuses)
type BranchService struct {
	repo *repository.BranchRepository
}

// NewBranchService creates a new BranchService
func NewBranchService(repo *repository.BranchRepository) *BranchService {
	return &BranchService{repo: repo}
}

// Create creates a branch
func (s *BranchService) Create(ctx context.Context, tenantID, name, code, address string) (*domain.Branch, error) {
	branch := &domain.Branch{
		TenantID: tenantID,
		Name:     name,
		Code:     code,
		Address:  address,
		Active:   true,
	}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// List lists the tenant's branches
func (s *BranchService) List(ctx context.Context, tenantID string) ([]domain.Branch, error) {
	return s.repo.ListByTenantID(ctx, tenantID)
}

// Count counts the tenant's branches. Used as the plan-limit count
// resolver for branch writes.
func (s *BranchService) Count(ctx context.Context, tenantID string) (int64, error) {
	return s.repo.CountByTenantID(ctx, tenantID)
}
