package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// subscriptionContextKey stores the resolved SubscriptionContext
const subscriptionContextKey = "subscription"

var enforcementDenials = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "subscription_enforcement_denials_total",
		Help: "Requests denied by the subscription enforcement gates",
	},
	[]string{"code"},
)

// SubscriptionContext is attached to the request after the gates pass
type SubscriptionContext struct {
	TenantID string `json:"tenant_id"`
	PlanCode string `json:"plan_code"`
	Status   string `json:"status"`
}

// SubscriptionSource resolves a tenant's subscription and plan.
// (nil, nil, nil) means the tenant has no subscription record.
type SubscriptionSource interface {
	CurrentFor(ctx context.Context, tenantID string) (*domain.Subscription, *domain.Plan, error)
}

// ConfigResolver resolves feature flags and numeric limits
type ConfigResolver interface {
	FlagEnabled(ctx context.Context, tenantID, key string) (bool, error)
	NumberValue(ctx context.Context, tenantID, key string) (float64, error)
}

// CountFunc resolves the tenant's current usage for a limit gate
type CountFunc func(ctx context.Context, tenantID string) (int64, error)

// RouteMeta declares the feature and limit requirements of one route.
// Routes register their metadata at registration time; nothing is
// inferred from path strings at request time.
type RouteMeta struct {
	Feature  string
	LimitKey string
	Count    CountFunc
}

// RouteTable is the declarative route -> requirements table
type RouteTable struct {
	meta map[string]RouteMeta
}

// NewRouteTable creates an empty route table
func NewRouteTable() *RouteTable {
	return &RouteTable{meta: make(map[string]RouteMeta)}
}

// Register attaches metadata to a route. Path is the gin route pattern
// (e.g. /api/v1/students/:id), not a concrete URL.
func (t *RouteTable) Register(method, path string, meta RouteMeta) {
	t.meta[method+" "+path] = meta
}

// Lookup returns the metadata for a matched route
func (t *RouteTable) Lookup(method, path string) (RouteMeta, bool) {
	meta, ok := t.meta[method+" "+path]
	return meta, ok
}

// defaultExemptPrefixes are reachable with an inactive subscription so a
// tenant can pay, change plans, or authenticate its way out
var defaultExemptPrefixes = []string{
	"/api/v1/auth",
	"/api/v1/billing",
	"/api/v1/subscription",
	"/health",
	"/ready",
	"/metrics",
}

// Enforcer runs the three-gate subscription policy on every request
type Enforcer struct {
	subs           SubscriptionSource
	config         ConfigResolver
	routes         *RouteTable
	exemptPrefixes []string
}

// NewEnforcer creates an Enforcer with the default exempt prefixes
func NewEnforcer(subs SubscriptionSource, config ConfigResolver, routes *RouteTable) *Enforcer {
	return &Enforcer{
		subs:           subs,
		config:         config,
		routes:         routes,
		exemptPrefixes: defaultExemptPrefixes,
	}
}

// Middleware returns the per-request gate. Gates run in order:
// identity, status, feature, limit; the first failure short-circuits.
func (e *Enforcer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Identity gate: no tenant context means a public or webhook
		// route; nothing to enforce.
		tenantID := GetTenantID(c)
		if tenantID == "" {
			c.Next()
			return
		}

		exempt := e.isExempt(c.Request.URL.Path)

		// Status gate.
		sub, plan, err := e.subs.CurrentFor(c.Request.Context(), tenantID)
		if err != nil {
			e.fail(c, http.StatusInternalServerError, common.CodeInternal, "Subscription lookup failed", err)
			return
		}
		if sub == nil {
			if exempt {
				c.Next()
				return
			}
			e.deny(c, common.ErrNoSubscription())
			return
		}
		if sub.Inactive() {
			if exempt {
				// Exempt paths skip the remaining gates so a blocked
				// tenant can still pay or change plans.
				c.Next()
				return
			}
			e.deny(c, common.ErrSubscriptionInactive(sub.Status))
			return
		}

		meta, hasMeta := e.routes.Lookup(c.Request.Method, c.FullPath())

		// Feature gate.
		if hasMeta && meta.Feature != "" {
			enabled, err := e.config.FlagEnabled(c.Request.Context(), tenantID, meta.Feature)
			if err != nil {
				e.fail(c, http.StatusInternalServerError, common.CodeInternal, "Feature lookup failed", err)
				return
			}
			if !enabled {
				e.deny(c, common.ErrFeatureDisabled(meta.Feature))
				return
			}
		}

		// Limit gate: write methods only.
		if hasMeta && meta.LimitKey != "" && meta.Count != nil && isWriteMethod(c.Request.Method) {
			count, err := meta.Count(c.Request.Context(), tenantID)
			if err != nil {
				e.fail(c, http.StatusInternalServerError, common.CodeInternal, "Usage count failed", err)
				return
			}
			limit, err := e.config.NumberValue(c.Request.Context(), tenantID, meta.LimitKey)
			if err != nil {
				e.fail(c, http.StatusInternalServerError, common.CodeInternal, "Limit lookup failed", err)
				return
			}
			if float64(count) >= limit {
				e.deny(c, common.ErrPlanLimitExceeded(meta.LimitKey))
				return
			}
		}

		subCtx := SubscriptionContext{TenantID: tenantID, Status: sub.Status}
		if plan != nil {
			subCtx.PlanCode = plan.Code
		}
		c.Set(subscriptionContextKey, subCtx)

		c.Next()
	}
}

// GetSubscriptionContext returns the context attached after the gates
// passed, or nil on ungated routes
func GetSubscriptionContext(c *gin.Context) *SubscriptionContext {
	v, exists := c.Get(subscriptionContextKey)
	if !exists {
		return nil
	}
	if sc, ok := v.(SubscriptionContext); ok {
		return &sc
	}
	return nil
}

func (e *Enforcer) isExempt(path string) bool {
	for _, prefix := range e.exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (e *Enforcer) deny(c *gin.Context, appErr *common.AppError) {
	enforcementDenials.WithLabelValues(appErr.Code).Inc()
	common.AppErrorResponse(c, appErr)
	c.Abort()
}

// fail converts unexpected errors into a structured response instead of
// letting them fall through
func (e *Enforcer) fail(c *gin.Context, status int, code, message string, err error) {
	pkglogger.GetLogger().Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("enforcement middleware error")
	common.AppErrorResponse(c, common.NewAppError(status, code, message))
	c.Abort()
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
