package repository

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// StudentRepository handles student persistence
type StudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create creates a student
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// ListByTenantID lists students of a tenant with pagination
func (r *StudentRepository) ListByTenantID(ctx context.Context, tenantID string, page, perPage int) ([]domain.Student, int64, error) {
	var students []domain.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Student{}).Where("tenant_id = ?", tenantID)
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&students).Error

	return students, total, err
}

// CountByTenantID counts students of a tenant. Used by the plan-limit gate.
func (r *StudentRepository) CountByTenantID(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Student{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
