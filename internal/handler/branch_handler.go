package handler

import (
	"net/http"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// BranchHandler handles branch endpoints
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create adds a branch under the tenant
// POST /api/v1/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req domain.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)

	branch, err := h.branchService.Create(c.Request.Context(), tenantID, req.Name, req.Code, req.Address)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, branch)
}

// List lists the tenant's branches
// GET /api/v1/branches
func (h *BranchHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	branches, err := h.branchService.List(c.Request.Context(), tenantID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, branches, nil)
}
