package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubs struct {
	subs  map[string]*domain.Subscription
	plans map[string]*domain.Plan
}

func (f *fakeSubs) CurrentFor(_ context.Context, tenantID string) (*domain.Subscription, *domain.Plan, error) {
	return f.subs[tenantID], f.plans[tenantID], nil
}

type fakeConfig struct {
	flags   map[string]bool
	numbers map[string]float64
}

func (f *fakeConfig) FlagEnabled(_ context.Context, _, key string) (bool, error) {
	return f.flags[key], nil
}

func (f *fakeConfig) NumberValue(_ context.Context, _, key string) (float64, error) {
	return f.numbers[key], nil
}

type enforcerFixture struct {
	router *gin.Engine
	subs   *fakeSubs
	config *fakeConfig
	count  int64
}

func setupEnforcer(t *testing.T) *enforcerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &enforcerFixture{
		subs: &fakeSubs{
			subs:  make(map[string]*domain.Subscription),
			plans: make(map[string]*domain.Plan),
		},
		config: &fakeConfig{
			flags:   map[string]bool{"students.enabled": true},
			numbers: map[string]float64{"limits.maxStudents": 2},
		},
	}

	table := NewRouteTable()
	table.Register("POST", "/api/v1/students", RouteMeta{
		Feature:  "students.enabled",
		LimitKey: "limits.maxStudents",
		Count:    func(context.Context, string) (int64, error) { return f.count, nil },
	})
	table.Register("GET", "/api/v1/students", RouteMeta{
		Feature:  "students.enabled",
		LimitKey: "limits.maxStudents",
		Count:    func(context.Context, string) (int64, error) { return f.count, nil },
	})
	table.Register("POST", "/api/v1/fees/heads", RouteMeta{Feature: "fees.enabled"})

	enforcer := NewEnforcer(f.subs, f.config, table)

	router := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.Use(func(c *gin.Context) {
		if tenant := c.GetHeader("X-Test-Tenant"); tenant != "" {
			c.Set(ctxTenantID, tenant)
		}
	}, enforcer.Middleware())

	router.POST("/api/v1/students", ok)
	router.GET("/api/v1/students", ok)
	router.POST("/api/v1/fees/heads", ok)
	router.GET("/api/v1/reports/summary", ok)
	router.POST("/api/v1/billing/create-order", ok)
	router.GET("/api/v1/subscription/plans", ok)

	f.router = router
	return f
}

func (f *enforcerFixture) addTenant(tenantID, status string) {
	f.subs.subs[tenantID] = &domain.Subscription{TenantID: tenantID, PlanID: 1, Status: status}
	f.subs.plans[tenantID] = &domain.Plan{ID: 1, Code: domain.PlanBasic, Name: "Basic"}
}

func (f *enforcerFixture) do(method, path, tenant string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if tenant != "" {
		req.Header.Set("X-Test-Tenant", tenant)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestEnforcerPassesWithoutTenant(t *testing.T) {
	f := setupEnforcer(t)

	w := f.do("GET", "/api/v1/reports/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforcerFailsClosedWithoutSubscription(t *testing.T) {
	f := setupEnforcer(t)

	w := f.do("GET", "/api/v1/reports/summary", "t1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, common.CodeNoSubscription, errorCode(t, w))

	// Exempt prefixes stay reachable so the tenant can fix its state.
	w = f.do("POST", "/api/v1/billing/create-order", "t1")
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do("GET", "/api/v1/subscription/plans", "t1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforcerBlocksInactiveStatuses(t *testing.T) {
	f := setupEnforcer(t)

	for _, status := range []string{
		domain.SubscriptionPastDue,
		domain.SubscriptionSuspended,
		domain.SubscriptionCancelled,
	} {
		f.addTenant("t1", status)

		w := f.do("GET", "/api/v1/reports/summary", "t1")
		assert.Equal(t, http.StatusForbidden, w.Code, status)
		assert.Equal(t, common.CodeSubscriptionInactive, errorCode(t, w), status)

		w = f.do("POST", "/api/v1/billing/create-order", "t1")
		assert.Equal(t, http.StatusOK, w.Code, "exempt path must pass for %s", status)
	}
}

func TestEnforcerAllowsActiveAndTrialing(t *testing.T) {
	f := setupEnforcer(t)

	for _, status := range []string{domain.SubscriptionActive, domain.SubscriptionTrialing} {
		f.addTenant("t1", status)
		w := f.do("GET", "/api/v1/reports/summary", "t1")
		assert.Equal(t, http.StatusOK, w.Code, status)
	}
}

func TestEnforcerFeatureGate(t *testing.T) {
	f := setupEnforcer(t)
	f.addTenant("t1", domain.SubscriptionActive)

	w := f.do("POST", "/api/v1/fees/heads", "t1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, common.CodeFeatureDisabled, errorCode(t, w))

	f.config.flags["fees.enabled"] = true
	w = f.do("POST", "/api/v1/fees/heads", "t1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforcerLimitGateWritesOnly(t *testing.T) {
	f := setupEnforcer(t)
	f.addTenant("t1", domain.SubscriptionActive)

	f.count = 1 // under limit of 2
	w := f.do("POST", "/api/v1/students", "t1")
	assert.Equal(t, http.StatusOK, w.Code)

	f.count = 2 // at limit
	w = f.do("POST", "/api/v1/students", "t1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, common.CodePlanLimitExceeded, errorCode(t, w))

	// Reads skip the limit gate even with the same metadata.
	w = f.do("GET", "/api/v1/students", "t1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnforcerAttachesSubscriptionContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := setupEnforcer(t)
	f.addTenant("t1", domain.SubscriptionActive)

	var captured *SubscriptionContext
	f.router.GET("/api/v1/whoami", func(c *gin.Context) {
		captured = GetSubscriptionContext(c)
		c.Status(http.StatusOK)
	})

	w := f.do("GET", "/api/v1/whoami", "t1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "t1", captured.TenantID)
	assert.Equal(t, domain.PlanBasic, captured.PlanCode)
	assert.Equal(t, domain.SubscriptionActive, captured.Status)
}
