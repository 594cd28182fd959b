package handler

import (
	"net/http"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// FeeHandler handles fee head endpoints
type FeeHandler struct {
	feeService *service.FeeService
}

// NewFeeHandler creates a new FeeHandler
func NewFeeHandler(feeService *service.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// Create adds a fee head
// POST /api/v1/fees/heads
func (h *FeeHandler) Create(c *gin.Context) {
	var req domain.CreateFeeHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)

	head, err := h.feeService.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, head)
}

// List lists the tenant's fee heads
// GET /api/v1/fees/heads
func (h *FeeHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	heads, err := h.feeService.List(c.Request.Context(), tenantID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, heads, nil)
}
