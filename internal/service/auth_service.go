package service

import (
	"context"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles admin-app authentication
type AuthService struct {
	userRepo *repository.UserRepository
	jwtMgr   *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepository, jwtMgr *jwt.Manager) *AuthService {
	return &AuthService{userRepo: userRepo, jwtMgr: jwtMgr}
}

// Login verifies credentials and issues tokens
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	access, err := s.jwtMgr.GenerateToken(user.ID, user.TenantID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.TenantID, user.Role)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TenantID:     user.TenantID,
		Role:         user.Role,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*domain.LoginResponse, error) {
	claims, err := s.jwtMgr.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	access, err := s.jwtMgr.GenerateToken(claims.UserID, claims.TenantID, claims.Role)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TenantID:     claims.TenantID,
		Role:         claims.Role,
	}, nil
}
