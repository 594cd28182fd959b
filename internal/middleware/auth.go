package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth
const (
	ctxUserID   = "userID"
	ctxTenantID = "tenantID"
	ctxRole     = "role"
)

// JWTAuth verifies the bearer token and stores the actor's identity and
// tenant in the request context
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxTenantID, claims.TenantID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// GetUserID extracts the actor id from context
func GetUserID(c *gin.Context) string {
	return getString(c, ctxUserID)
}

// GetTenantID extracts the tenant id from context. Empty means the
// request carries no tenant context (public/webhook routes).
func GetTenantID(c *gin.Context) string {
	return getString(c, ctxTenantID)
}

// GetRole extracts the actor role from context
func GetRole(c *gin.Context) string {
	return getString(c, ctxRole)
}

func getString(c *gin.Context, key string) string {
	v, exists := c.Get(key)
	if !exists {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
