package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// BillingHandler handles order creation and provider webhooks
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateOrder creates a provider order for a paid plan
// POST /api/v1/billing/create-order
func (h *BillingHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)

	resp, err := h.billingService.CreateOrder(c.Request.Context(), tenantID, req.PlanCode)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// Webhook processes provider payment events. The body is read raw so the
// signature is verified over the exact bytes the provider signed. Always
// responds 200 so the provider does not retry on business-level failures.
// POST /api/v1/billing/webhook
func (h *BillingHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Unreadable body"})
		return
	}

	result := h.billingService.HandleWebhook(c.Request.Context(), body, c.GetHeader("X-Signature"))
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "message": result.Message})
}

// ListPayments lists the tenant's payment ledger
// GET /api/v1/billing/payments?page=1&per_page=20
func (h *BillingHandler) ListPayments(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	page := 1
	if val, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && val > 0 {
		page = val
	}
	perPage := 20
	if val, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && val > 0 {
		perPage = val
	}

	payments, total, err := h.billingService.ListPayments(c.Request.Context(), tenantID, page, perPage)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, payments, &common.Meta{Page: page, Limit: perPage, Total: total})
}
