package service

import (
	"context"

	"github.com/campushq/campus-backend/internal/domain"
	pkglogger "github.com/campushq/campus-backend/pkg/logger"
)

// systemActor attributes config writes made by the platform itself
const systemActor = "system"

// planDefaults maps a plan code to the config values it grants.
// Values are raw strings in whitelist form.
var planDefaults = map[string][]domain.ConfigKeyValue{
	domain.PlanFree: {
		{Key: "students.enabled", Value: "true"},
		{Key: "fees.enabled", Value: "false"},
		{Key: "exams.enabled", Value: "false"},
		{Key: "reports.enabled", Value: "false"},
		{Key: "limits.maxStudents", Value: "50"},
		{Key: "limits.maxBranches", Value: "1"},
		{Key: "limits.maxStaff", Value: "5"},
	},
	domain.PlanBasic: {
		{Key: "students.enabled", Value: "true"},
		{Key: "fees.enabled", Value: "true"},
		{Key: "exams.enabled", Value: "true"},
		{Key: "reports.enabled", Value: "false"},
		{Key: "limits.maxStudents", Value: "500"},
		{Key: "limits.maxBranches", Value: "3"},
		{Key: "limits.maxStaff", Value: "25"},
	},
	domain.PlanPro: {
		{Key: "students.enabled", Value: "true"},
		{Key: "fees.enabled", Value: "true"},
		{Key: "exams.enabled", Value: "true"},
		{Key: "reports.enabled", Value: "true"},
		{Key: "limits.maxStudents", Value: "5000"},
		{Key: "limits.maxBranches", Value: "10"},
		{Key: "limits.maxStaff", Value: "100"},
	},
	domain.PlanEnterprise: {
		{Key: "students.enabled", Value: "true"},
		{Key: "fees.enabled", Value: "true"},
		{Key: "exams.enabled", Value: "true"},
		{Key: "reports.enabled", Value: "true"},
		{Key: "limits.maxStudents", Value: "100000"},
		{Key: "limits.maxBranches", Value: "100"},
		{Key: "limits.maxStaff", Value: "1000"},
	},
}

// PlanDefaultsFor returns the config values a plan grants
func PlanDefaultsFor(planCode string) ([]domain.ConfigKeyValue, bool) {
	defaults, ok := planDefaults[planCode]
	return defaults, ok
}

// PlanConfigApplier pushes a plan's config defaults into the config store
type PlanConfigApplier struct {
	config *ConfigService
}

// NewPlanConfigApplier creates a new PlanConfigApplier
func NewPlanConfigApplier(config *ConfigService) *PlanConfigApplier {
	return &PlanConfigApplier{config: config}
}

// Apply batch-upserts the plan's defaults at TENANT scope, attributed to
// the system actor
func (a *PlanConfigApplier) Apply(ctx context.Context, tenantID, planCode string) error {
	defaults, ok := planDefaults[planCode]
	if !ok {
		pkglogger.GetLogger().Warn().
			Str("tenant_id", tenantID).
			Str("plan", planCode).
			Msg("no config defaults for plan")
		return nil
	}
	return a.config.BatchUpsert(ctx, tenantID, defaults, domain.ScopeTenant, systemActor, 0)
}

// ApplyLogged applies plan defaults and only logs failures. Used where
// the primary state change (activation, plan change) is already
// committed and must not be undone or retried.
func (a *PlanConfigApplier) ApplyLogged(ctx context.Context, tenantID, planCode string) {
	if err := a.Apply(ctx, tenantID, planCode); err != nil {
		pkglogger.GetLogger().Error().
			Err(err).
			Str("tenant_id", tenantID).
			Str("plan", planCode).
			Msg("failed to apply plan config defaults")
	}
}
