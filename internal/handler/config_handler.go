package handler

import (
	"net/http"
	"strconv"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ConfigHandler exposes the tenant configuration surface. Writes go
// through PATCH only; there is no delete endpoint.
type ConfigHandler struct {
	configService *service.ConfigService
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(configService *service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// List returns every whitelisted key resolved for the tenant
// GET /api/v1/config?branch_id=1&prefix=limits.
func (h *ConfigHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	branchID := parseBranchID(c)

	entries, err := h.configService.ListResolved(c.Request.Context(), tenantID, branchID, c.Query("prefix"))
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, entries, nil)
}

// Get resolves a single key for the tenant
// GET /api/v1/config/:key?branch_id=1
func (h *ConfigHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	branchID := parseBranchID(c)

	resolved, err := h.configService.Resolve(c.Request.Context(), tenantID, c.Param("key"), branchID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resolved, nil)
}

// Upsert writes one key/value at tenant or branch scope
// PATCH /api/v1/config
func (h *ConfigHandler) Upsert(c *gin.Context) {
	var req domain.ConfigUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)
	actor := middleware.GetUserID(c)
	scope := scopeOrDefault(req.Scope)

	if err := h.configService.Upsert(c.Request.Context(), tenantID, req.Key, req.Value, scope, actor, req.BranchID); err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	resolved, err := h.configService.Resolve(c.Request.Context(), tenantID, req.Key, req.BranchID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resolved, nil)
}

// BatchUpsert writes several keys in one transaction, all-or-nothing
// PATCH /api/v1/config/batch
func (h *ConfigHandler) BatchUpsert(c *gin.Context) {
	var req domain.ConfigBatchUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)
	actor := middleware.GetUserID(c)
	scope := scopeOrDefault(req.Scope)

	if err := h.configService.BatchUpsert(c.Request.Context(), tenantID, req.Entries, scope, actor, req.BranchID); err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": len(req.Entries)}, nil)
}

func scopeOrDefault(scope string) domain.ConfigScope {
	if scope == "" {
		return domain.ScopeTenant
	}
	return domain.ConfigScope(scope)
}

func parseBranchID(c *gin.Context) int64 {
	val, err := strconv.ParseInt(c.Query("branch_id"), 10, 64)
	if err != nil {
		return 0
	}
	return val
}
