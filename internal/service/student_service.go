package service

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
)

// StudentService is the thin student module exercised by the
// feature/limit gates
type StudentService struct {
	repo *repository.StudentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(repo *repository.StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

// Create creates a student for the tenant
func (s *StudentService) Create(ctx context.Context, tenantID string, req *domain.CreateStudentRequest) (*domain.Student, error) {
	student := &domain.Student{
		TenantID:    tenantID,
		BranchID:    req.BranchID,
		Name:        req.Name,
		AdmissionNo: req.AdmissionNo,
		ClassLabel:  req.ClassLabel,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// List lists students with pagination
func (s *StudentService) List(ctx context.Context, tenantID string, page, perPage int) ([]domain.Student, int64, error) {
	return s.repo.ListByTenantID(ctx, tenantID, page, perPage)
}

// Count counts the tenant's students. Used as the plan-limit count
// resolver for student writes.
func (s *StudentService) Count(ctx context.Context, tenantID string) (int64, error) {
	return s.repo.CountByTenantID(ctx, tenantID)
}
