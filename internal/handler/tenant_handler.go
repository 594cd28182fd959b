package handler

import (
	"net/http"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles tenant provisioning
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Provision creates a tenant with its owner account and trial subscription
// POST /api/v1/tenants
func (h *TenantHandler) Provision(c *gin.Context) {
	var req domain.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	resp, err := h.tenantService.Provision(c.Request.Context(), &req)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, resp)
}
