package service

import (
	"context"
	"testing"

	"github.com/campushq/campus-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDefaultsAreWhitelisted(t *testing.T) {
	for _, code := range []string{domain.PlanFree, domain.PlanBasic, domain.PlanPro, domain.PlanEnterprise} {
		defaults, ok := PlanDefaultsFor(code)
		require.True(t, ok, code)
		for _, kv := range defaults {
			spec, known := KeySpecFor(kv.Key)
			require.True(t, known, "%s grants unknown key %s", code, kv.Key)
			assert.NoError(t, validateValue(kv.Key, spec, kv.Value), "%s/%s", code, kv.Key)
		}
	}
}

func TestApplyWritesTenantScopeAsSystem(t *testing.T) {
	svc := setupConfigService(t)
	applier := NewPlanConfigApplier(svc)
	ctx := context.Background()

	require.NoError(t, applier.Apply(ctx, "t1", domain.PlanPro))

	enabled, err := svc.FlagEnabled(ctx, "t1", "reports.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	var row domain.ConfigEntry
	require.NoError(t, svc.db.
		Where("tenant_id = ? AND config_key = ?", "t1", "reports.enabled").
		First(&row).Error)
	assert.Equal(t, systemActor, row.UpdatedBy)
	assert.Equal(t, domain.ScopeTenant, row.Scope)
}

func TestApplyUnknownPlanIsNoOp(t *testing.T) {
	svc := setupConfigService(t)
	applier := NewPlanConfigApplier(svc)

	require.NoError(t, applier.Apply(context.Background(), "t1", "GOLD"))

	rv, err := svc.Resolve(context.Background(), "t1", "fees.enabled", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, rv.Source)
}
