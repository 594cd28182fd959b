package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushq/campus-backend/internal/billing"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

type stubGateway struct{}

func (stubGateway) Provider() string { return "razorpay" }
func (stubGateway) Key() string      { return "rzp_test_key" }
func (stubGateway) CreateOrder(context.Context, int, string, string) (*billing.ProviderOrder, error) {
	return &billing.ProviderOrder{OrderID: "order_001", Amount: 149900, Currency: "INR"}, nil
}

func setupWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("BILLING_WEBHOOK_SECRET", testSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Plan{}, &domain.Subscription{}, &domain.Payment{}, &domain.ConfigEntry{},
	))

	configSvc := service.NewConfigService(repository.NewConfigRepository(db), db)
	billingSvc := service.NewBillingService(
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		service.NewPlanConfigApplier(configSvc),
		stubGateway{},
		nil,
	)

	router := gin.New()
	router.POST("/api/v1/billing/webhook", NewBillingHandler(billingSvc).Webhook)
	return router
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/billing/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// The webhook endpoint always answers 200 with {success, message}; the
// provider must never be prompted to retry on business-level failures.
func TestWebhookAlways200(t *testing.T) {
	router := setupWebhookRouter(t)

	cases := []struct {
		name      string
		body      []byte
		signature string
		success   bool
		message   string
	}{
		{
			name:      "bad signature",
			body:      []byte(`{"event":"payment.captured"}`),
			signature: "deadbeef",
			success:   false,
			message:   "INVALID_SIGNATURE",
		},
		{
			name:      "missing signature",
			body:      []byte(`{"event":"payment.captured"}`),
			signature: "",
			success:   false,
			message:   "INVALID_SIGNATURE",
		},
		{
			name:      "garbage body",
			body:      []byte(`not json`),
			signature: signBody([]byte(`not json`)),
			success:   false,
			message:   "Invalid payload",
		},
		{
			name:      "ignored event",
			body:      []byte(`{"event":"refund.created"}`),
			signature: signBody([]byte(`{"event":"refund.created"}`)),
			success:   true,
			message:   "Event ignored",
		},
		{
			name:      "unknown order",
			body:      []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_x"}}}}`),
			signature: signBody([]byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"order_id":"order_x"}}}}`)),
			success:   false,
			message:   "PAYMENT_NOT_FOUND",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postWebhook(router, tc.body, tc.signature)
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.success, resp.Success)
			assert.Equal(t, tc.message, resp.Message)
		})
	}
}
