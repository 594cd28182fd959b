package service

import (
	"context"
	"testing"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func setupConfigService(t *testing.T) *ConfigService {
	t.Helper()
	db := setupTestDB(t, &domain.ConfigEntry{})
	return NewConfigService(repository.NewConfigRepository(db), db)
}

func TestResolvePrecedence(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	// Nothing written: default wins.
	rv, err := svc.Resolve(ctx, "t1", "limits.maxStudents", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, rv.Source)
	assert.Equal(t, float64(50), rv.Value)

	// Tenant override beats default.
	require.NoError(t, svc.Upsert(ctx, "t1", "limits.maxStudents", "200", domain.ScopeTenant, "admin1", 0))
	rv, err = svc.Resolve(ctx, "t1", "limits.maxStudents", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceTenant, rv.Source)
	assert.Equal(t, float64(200), rv.Value)

	// Branch override beats tenant, but only inside that branch.
	require.NoError(t, svc.Upsert(ctx, "t1", "limits.maxStudents", "300", domain.ScopeBranch, "admin1", 7))
	rv, err = svc.Resolve(ctx, "t1", "limits.maxStudents", 7)
	require.NoError(t, err)
	assert.Equal(t, SourceBranch, rv.Source)
	assert.Equal(t, float64(300), rv.Value)

	rv, err = svc.Resolve(ctx, "t1", "limits.maxStudents", 8)
	require.NoError(t, err)
	assert.Equal(t, SourceTenant, rv.Source)

	rv, err = svc.Resolve(ctx, "t1", "limits.maxStudents", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceTenant, rv.Source)
}

func TestResolveIsolatedPerTenant(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "t1", "fees.enabled", "true", domain.ScopeTenant, "admin1", 0))

	rv, err := svc.Resolve(ctx, "t2", "fees.enabled", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, rv.Source)
	assert.Equal(t, false, rv.Value)
}

func TestUpsertRejectsUnknownKey(t *testing.T) {
	svc := setupConfigService(t)

	err := svc.Upsert(context.Background(), "t1", "payments.razorpayKeySecret", "x", domain.ScopeTenant, "admin1", 0)
	require.Error(t, err)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeInvalidKey, appErr.Code)

	_, err = svc.Resolve(context.Background(), "t1", "nope", 0)
	require.Error(t, err)
}

func TestUpsertScopeValidation(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	err := svc.Upsert(ctx, "t1", "fees.enabled", "true", domain.ScopeBranch, "admin1", 0)
	require.Error(t, err, "BRANCH scope requires a branch id")

	err = svc.Upsert(ctx, "t1", "fees.enabled", "true", domain.ScopeTenant, "admin1", 5)
	require.Error(t, err, "TENANT scope must not carry a branch id")
}

func TestUpsertValueValidation(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	assert.Error(t, svc.Upsert(ctx, "t1", "fees.enabled", "yes", domain.ScopeTenant, "admin1", 0))
	assert.Error(t, svc.Upsert(ctx, "t1", "limits.maxStudents", "many", domain.ScopeTenant, "admin1", 0))
	assert.Error(t, svc.Upsert(ctx, "t1", "notifications.channel", "pigeon", domain.ScopeTenant, "admin1", 0))

	assert.NoError(t, svc.Upsert(ctx, "t1", "notifications.channel", "sms", domain.ScopeTenant, "admin1", 0))
	assert.NoError(t, svc.Upsert(ctx, "t1", "academics.sessionLabel", "2026-27", domain.ScopeTenant, "admin1", 0))
}

func TestUpsertIsIdempotentRow(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "t1", "fees.enabled", "true", domain.ScopeTenant, "admin1", 0))
	require.NoError(t, svc.Upsert(ctx, "t1", "fees.enabled", "false", domain.ScopeTenant, "admin2", 0))

	var rows []domain.ConfigEntry
	require.NoError(t, svc.db.Where("tenant_id = ? AND config_key = ?", "t1", "fees.enabled").Find(&rows).Error)
	require.Len(t, rows, 1, "repeated upsert must update in place, not insert")
	assert.Equal(t, "false", rows[0].Value)
	assert.Equal(t, "admin2", rows[0].UpdatedBy)
}

func TestBatchUpsertAllOrNothing(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	err := svc.BatchUpsert(ctx, "t1", []domain.ConfigKeyValue{
		{Key: "fees.enabled", Value: "true"},
		{Key: "not.a.key", Value: "x"},
	}, domain.ScopeTenant, "admin1", 0)
	require.Error(t, err)

	rv, err := svc.Resolve(ctx, "t1", "fees.enabled", 0)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, rv.Source, "failed batch must write nothing")

	require.NoError(t, svc.BatchUpsert(ctx, "t1", []domain.ConfigKeyValue{
		{Key: "fees.enabled", Value: "true"},
		{Key: "limits.maxStudents", Value: "500"},
	}, domain.ScopeTenant, "admin1", 0))

	enabled, err := svc.FlagEnabled(ctx, "t1", "fees.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)
	limit, err := svc.NumberValue(ctx, "t1", "limits.maxStudents")
	require.NoError(t, err)
	assert.Equal(t, float64(500), limit)
}

func TestListResolved(t *testing.T) {
	svc := setupConfigService(t)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, "t1", "fees.enabled", "true", domain.ScopeTenant, "admin1", 0))
	require.NoError(t, svc.Upsert(ctx, "t1", "limits.maxStudents", "120", domain.ScopeBranch, "admin1", 3))

	entries, err := svc.ListResolved(ctx, "t1", 3, "")
	require.NoError(t, err)
	require.Len(t, entries, len(SortedKeys()), "every whitelisted key is present")

	byKey := make(map[string]ResolvedEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}

	fees := byKey["fees.enabled"]
	assert.Equal(t, SourceTenant, fees.Source)
	assert.Equal(t, true, fees.Value)
	require.NotNil(t, fees.TenantRaw)
	assert.Equal(t, "true", *fees.TenantRaw)

	students := byKey["limits.maxStudents"]
	assert.Equal(t, SourceBranch, students.Source)
	assert.Equal(t, float64(120), students.Value)
	require.NotNil(t, students.BranchRaw)

	exams := byKey["exams.enabled"]
	assert.Equal(t, SourceDefault, exams.Source)
	assert.Equal(t, "false", exams.Default)
	assert.Nil(t, exams.TenantRaw)

	// Prefix filter.
	limits, err := svc.ListResolved(ctx, "t1", 0, "limits.")
	require.NoError(t, err)
	assert.Len(t, limits, 3)
}

func TestFlagEnabledNonBooleanKey(t *testing.T) {
	svc := setupConfigService(t)

	enabled, err := svc.FlagEnabled(context.Background(), "t1", "academics.sessionLabel")
	require.NoError(t, err)
	assert.False(t, enabled, "non-boolean keys resolve false, never panic")
}
