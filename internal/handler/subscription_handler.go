package handler

import (
	"net/http"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler exposes the tenant subscription surface
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Current returns the tenant's subscription with its plan
// GET /api/v1/subscription/current
func (h *SubscriptionHandler) Current(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	resp, err := h.subscriptionService.GetCurrent(c.Request.Context(), tenantID)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// Plans lists the publicly offered plans
// GET /api/v1/subscription/plans
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, plans, nil)
}

// ChangePlan switches the tenant to another plan and applies its defaults
// POST /api/v1/subscription/change-plan
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req domain.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)

	resp, err := h.subscriptionService.ChangePlan(c.Request.Context(), tenantID, req.PlanCode)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}
