package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/campushq/campus-backend/internal/billing"
	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/campushq/campus-backend/pkg/cache"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
)

// webhookSecretEnv names the shared secret used to verify provider
// signatures. Read at call time so rotation needs no restart.
const webhookSecretEnv = "BILLING_WEBHOOK_SECRET"

// Webhook result messages
const (
	MsgInvalidSignature = "INVALID_SIGNATURE"
	MsgInvalidPayload   = "Invalid payload"
	MsgEventIgnored     = "Event ignored"
	MsgPaymentNotFound  = "PAYMENT_NOT_FOUND"
	MsgAlreadyProcessed = "Already processed"
	MsgAmountMismatch   = "AMOUNT_MISMATCH"
)

// Handled webhook event types
const (
	eventPaymentCaptured = "payment.captured"
	eventPaymentFailed   = "payment.failed"
)

// WebhookResult is the webhook contract: Success means the call was
// handled without protocol-level error (ignored and replayed events are
// still Success); Processed means this call caused a state mutation.
type WebhookResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed bool   `json:"processed"`
}

// webhookEvent is the provider's payload shape. Only the fields the
// processor acts on are bound.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				Amount           int    `json:"amount"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// BillingService creates payable orders and processes provider webhooks.
// The webhook path is the only writer allowed to activate a subscription
// from trial/past-due.
type BillingService struct {
	paymentRepo *repository.PaymentRepository
	subRepo     *repository.SubscriptionRepository
	planRepo    *repository.PlanRepository
	planConfig  *PlanConfigApplier
	gateway     billing.Gateway
	cache       cache.Service // nil-safe

	// secretOverride replaces the env-sourced webhook secret in tests
	secretOverride string
}

// NewBillingService creates a new BillingService
func NewBillingService(
	paymentRepo *repository.PaymentRepository,
	subRepo *repository.SubscriptionRepository,
	planRepo *repository.PlanRepository,
	planConfig *PlanConfigApplier,
	gateway billing.Gateway,
	cacheService cache.Service,
) *BillingService {
	return &BillingService{
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		planConfig:  planConfig,
		gateway:     gateway,
		cache:       cacheService,
	}
}

// CreateOrder creates a remote provider order and the matching local
// payment row. The row exists with status created before the client can
// attempt payment, so the webhook always has something to match against.
func (s *BillingService) CreateOrder(ctx context.Context, tenantID, planCode string) (*domain.CreateOrderResponse, error) {
	sub, err := s.subRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, common.ErrSubscriptionNotFound()
	}

	plan, err := s.planRepo.FindByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.ErrPlanNotFound(planCode)
	}
	if !plan.Payable() {
		return nil, common.ErrPlanNotPayable(planCode)
	}
	if !plan.Active {
		return nil, common.ErrBadRequest("Plan is not active: " + planCode)
	}

	receipt := fmt.Sprintf("sub_%d_plan_%s", sub.ID, plan.Code)
	order, err := s.gateway.CreateOrder(ctx, plan.MonthlyPricePaise, plan.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("create provider order: %w", err)
	}

	payment := &domain.Payment{
		TenantID:        tenantID,
		SubscriptionID:  sub.ID,
		PlanID:          plan.ID,
		Provider:        s.gateway.Provider(),
		ProviderOrderID: order.OrderID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Status:          domain.PaymentCreated,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	pkglogger.GetLogger().Info().
		Str("tenant_id", tenantID).
		Str("order_id", order.OrderID).
		Str("plan", plan.Code).
		Int("amount", order.Amount).
		Msg("payment order created")

	return &domain.CreateOrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.gateway.Key(),
		PlanCode: plan.Code,
		PlanName: plan.Name,
	}, nil
}

// HandleWebhook processes one provider webhook delivery. Signature
// verification runs over the raw bytes before anything is parsed or
// touched, so the verified bytes are exactly the ones acted upon.
func (s *BillingService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) WebhookResult {
	if !s.verifySignature(rawBody, signature) {
		pkglogger.GetLogger().Warn().Msg("billing webhook rejected: invalid signature")
		return WebhookResult{Success: false, Message: MsgInvalidSignature, Processed: false}
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return WebhookResult{Success: false, Message: MsgInvalidPayload, Processed: false}
	}

	switch event.Event {
	case eventPaymentCaptured:
		return s.handleCaptured(ctx, &event)
	case eventPaymentFailed:
		return s.handleFailed(ctx, &event)
	default:
		// Accepted-but-ignored so the provider does not retry.
		return WebhookResult{Success: true, Message: MsgEventIgnored, Processed: false}
	}
}

func (s *BillingService) handleCaptured(ctx context.Context, event *webhookEvent) WebhookResult {
	entity := event.Payload.Payment.Entity

	payment, err := s.paymentRepo.FindByProviderOrderID(ctx, entity.OrderID)
	if err != nil {
		return s.internalFailure("lookup payment", err)
	}
	if payment == nil {
		return WebhookResult{Success: false, Message: MsgPaymentNotFound, Processed: false}
	}

	// Replayed delivery must be a safe no-op.
	if payment.Status == domain.PaymentPaid {
		return WebhookResult{Success: true, Message: MsgAlreadyProcessed, Processed: false}
	}

	// A webhook claiming success on a different amount must never
	// activate anything. The discrepancy is captured for audit.
	if entity.Amount != payment.Amount {
		reason := fmt.Sprintf("amount mismatch: expected %d, got %d", payment.Amount, entity.Amount)
		changed, err := s.paymentRepo.MarkFailed(ctx, payment.ProviderOrderID, reason)
		if err != nil {
			return s.internalFailure("mark payment failed", err)
		}
		if !changed {
			// A concurrent delivery settled the row first.
			return WebhookResult{Success: true, Message: MsgAlreadyProcessed, Processed: false}
		}
		pkglogger.GetLogger().Error().
			Str("order_id", payment.ProviderOrderID).
			Int("expected", payment.Amount).
			Int("got", entity.Amount).
			Msg("billing webhook amount mismatch")
		return WebhookResult{Success: false, Message: MsgAmountMismatch, Processed: false}
	}

	// Conditional update: under concurrent duplicate delivery at most
	// one call wins the created -> paid transition.
	changed, err := s.paymentRepo.MarkPaid(ctx, payment.ProviderOrderID, entity.ID)
	if err != nil {
		return s.internalFailure("mark payment paid", err)
	}
	if !changed {
		return WebhookResult{Success: true, Message: MsgAlreadyProcessed, Processed: false}
	}

	sub, err := s.subRepo.FindByTenantID(ctx, payment.TenantID)
	if err != nil || sub == nil {
		// Payment stays paid; an accepted terminal inconsistency we do
		// not roll back.
		return s.internalFailure("load subscription for activation", err)
	}
	plan, err := s.planRepo.FindByID(ctx, payment.PlanID)
	if err != nil || plan == nil {
		return s.internalFailure("load plan for activation", err)
	}

	// The only site in the system allowed to perform this transition.
	sub.PlanID = plan.ID
	sub.Status = domain.SubscriptionActive
	sub.TrialEndsAt = nil
	sub.EndsAt = nil
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return s.internalFailure("activate subscription", err)
	}

	// Best-effort: the subscription is already correctly activated, so
	// config failure must not make the provider re-send the webhook.
	s.planConfig.ApplyLogged(ctx, payment.TenantID, plan.Code)
	if s.cache != nil {
		_ = s.cache.InvalidateSubscription(ctx, payment.TenantID)
	}

	pkglogger.GetLogger().Info().
		Str("tenant_id", payment.TenantID).
		Str("order_id", payment.ProviderOrderID).
		Str("plan", plan.Code).
		Int("amount", payment.Amount).
		Msg("payment captured, subscription activated")

	return WebhookResult{Success: true, Message: "Payment captured", Processed: true}
}

func (s *BillingService) handleFailed(ctx context.Context, event *webhookEvent) WebhookResult {
	entity := event.Payload.Payment.Entity

	payment, err := s.paymentRepo.FindByProviderOrderID(ctx, entity.OrderID)
	if err != nil {
		return s.internalFailure("lookup payment", err)
	}
	if payment == nil {
		return WebhookResult{Success: false, Message: MsgPaymentNotFound, Processed: false}
	}
	// Paid and failed are terminal: a late or replayed failure event
	// must never rewrite a settled ledger row.
	if payment.Status != domain.PaymentCreated {
		return WebhookResult{Success: true, Message: MsgAlreadyProcessed, Processed: false}
	}

	reason := entity.ErrorDescription
	if reason == "" {
		reason = "payment failed"
	}
	changed, err := s.paymentRepo.MarkFailed(ctx, payment.ProviderOrderID, reason)
	if err != nil {
		return s.internalFailure("mark payment failed", err)
	}
	if !changed {
		return WebhookResult{Success: true, Message: MsgAlreadyProcessed, Processed: false}
	}

	pkglogger.GetLogger().Info().
		Str("order_id", payment.ProviderOrderID).
		Str("reason", reason).
		Msg("payment failed")

	return WebhookResult{Success: true, Message: "Payment marked failed", Processed: true}
}

// verifySignature computes HMAC-SHA256 over the raw body and compares in
// constant time. A missing secret fails closed.
func (s *BillingService) verifySignature(rawBody []byte, signature string) bool {
	secret := s.secretOverride
	if secret == "" {
		secret = os.Getenv(webhookSecretEnv)
	}
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *BillingService) internalFailure(step string, err error) WebhookResult {
	pkglogger.GetLogger().Error().Err(err).Str("step", step).Msg("billing webhook processing failed")
	return WebhookResult{Success: false, Message: "Processing failed", Processed: false}
}

// ListPayments returns paginated payments for a tenant
func (s *BillingService) ListPayments(ctx context.Context, tenantID string, page, perPage int) ([]domain.Payment, int64, error) {
	return s.paymentRepo.ListByTenantID(ctx, tenantID, page, perPage)
}
