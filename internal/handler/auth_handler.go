package handler

import (
	"net/http"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and issues a token pair
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}

	common.SuccessResponse(c, resp, nil)
}
