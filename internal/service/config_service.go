package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"gorm.io/gorm"
)

// Resolution sources
const (
	SourceBranch  = "branch"
	SourceTenant  = "tenant"
	SourceDefault = "default"
)

// ResolvedValue is the effective value of one key for a (tenant, branch)
type ResolvedValue struct {
	Key    string      `json:"key"`
	Type   string      `json:"type"`
	Value  interface{} `json:"value"`
	Raw    string      `json:"raw"`
	Source string      `json:"source"`
}

// ResolvedEntry is ResolvedValue plus the raw tenant/branch rows for
// diagnostics in the config admin screen
type ResolvedEntry struct {
	ResolvedValue
	Default   string  `json:"default"`
	TenantRaw *string `json:"tenant_raw,omitempty"`
	BranchRaw *string `json:"branch_raw,omitempty"`
}

// ConfigService is the tenant/branch configuration store. Values resolve
// branch-over-tenant-over-default; writes are upsert-only against the
// fixed key whitelist.
type ConfigService struct {
	repo *repository.ConfigRepository
	db   *gorm.DB
}

// NewConfigService creates a new ConfigService
func NewConfigService(repo *repository.ConfigRepository, db *gorm.DB) *ConfigService {
	return &ConfigService{repo: repo, db: db}
}

// Resolve returns the effective value of key for (tenantID, branchID).
// branchID zero means no branch context.
func (s *ConfigService) Resolve(ctx context.Context, tenantID, key string, branchID int64) (*ResolvedValue, error) {
	spec, ok := KeySpecFor(key)
	if !ok {
		return nil, common.ErrInvalidConfigKey(key)
	}

	if branchID != 0 {
		entry, err := s.repo.Find(ctx, tenantID, key, domain.ScopeBranch, branchID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return resolved(key, spec, entry.Value, SourceBranch), nil
		}
	}

	entry, err := s.repo.Find(ctx, tenantID, key, domain.ScopeTenant, 0)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return resolved(key, spec, entry.Value, SourceTenant), nil
	}

	return resolved(key, spec, spec.Default, SourceDefault), nil
}

// FlagEnabled resolves a boolean key. Non-boolean keys resolve false.
func (s *ConfigService) FlagEnabled(ctx context.Context, tenantID, key string) (bool, error) {
	rv, err := s.Resolve(ctx, tenantID, key, 0)
	if err != nil {
		return false, err
	}
	enabled, ok := rv.Value.(bool)
	return ok && enabled, nil
}

// NumberValue resolves a numeric key
func (s *ConfigService) NumberValue(ctx context.Context, tenantID, key string) (float64, error) {
	rv, err := s.Resolve(ctx, tenantID, key, 0)
	if err != nil {
		return 0, err
	}
	n, ok := rv.Value.(float64)
	if !ok {
		return 0, fmt.Errorf("config key %s is not numeric", key)
	}
	return n, nil
}

// Upsert writes one value. Unknown keys and scope/branch mismatches are
// rejected before any write.
func (s *ConfigService) Upsert(ctx context.Context, tenantID, key, value string, scope domain.ConfigScope, updatedBy string, branchID int64) error {
	entry, err := s.buildEntry(tenantID, key, value, scope, updatedBy, branchID)
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, entry)
}

// BatchUpsert applies all entries in one transaction, all-or-nothing
func (s *ConfigService) BatchUpsert(ctx context.Context, tenantID string, entries []domain.ConfigKeyValue, scope domain.ConfigScope, updatedBy string, branchID int64) error {
	// Validate everything up front so the transaction never opens for a
	// doomed batch.
	built := make([]*domain.ConfigEntry, 0, len(entries))
	for _, kv := range entries {
		entry, err := s.buildEntry(tenantID, kv.Key, kv.Value, scope, updatedBy, branchID)
		if err != nil {
			return err
		}
		built = append(built, entry)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, entry := range built {
			if err := txRepo.Upsert(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListResolved returns the resolved value of every whitelisted key
// (optionally prefix-filtered), with source and raw rows for diagnostics
func (s *ConfigService) ListResolved(ctx context.Context, tenantID string, branchID int64, prefix string) ([]ResolvedEntry, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID, "")
	if err != nil {
		return nil, err
	}

	tenantRaw := make(map[string]string)
	branchRaw := make(map[string]string)
	for _, row := range rows {
		switch {
		case row.Scope == domain.ScopeTenant:
			tenantRaw[row.ConfigKey] = row.Value
		case row.Scope == domain.ScopeBranch && row.BranchID == branchID:
			branchRaw[row.ConfigKey] = row.Value
		}
	}

	var result []ResolvedEntry
	for _, key := range SortedKeys() {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		spec, _ := KeySpecFor(key)

		raw := spec.Default
		source := SourceDefault
		if v, ok := tenantRaw[key]; ok {
			raw, source = v, SourceTenant
		}
		if branchID != 0 {
			if v, ok := branchRaw[key]; ok {
				raw, source = v, SourceBranch
			}
		}

		entry := ResolvedEntry{
			ResolvedValue: *resolved(key, spec, raw, source),
			Default:       spec.Default,
		}
		if v, ok := tenantRaw[key]; ok {
			tv := v
			entry.TenantRaw = &tv
		}
		if v, ok := branchRaw[key]; ok {
			bv := v
			entry.BranchRaw = &bv
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *ConfigService) buildEntry(tenantID, key, value string, scope domain.ConfigScope, updatedBy string, branchID int64) (*domain.ConfigEntry, error) {
	spec, ok := KeySpecFor(key)
	if !ok {
		return nil, common.ErrInvalidConfigKey(key)
	}
	if scope == "" {
		scope = domain.ScopeTenant
	}
	if scope == domain.ScopeBranch && branchID == 0 {
		return nil, common.ErrBadRequest("branch_id is required for BRANCH scope")
	}
	if scope == domain.ScopeTenant && branchID != 0 {
		return nil, common.ErrBadRequest("branch_id is not allowed for TENANT scope")
	}
	if err := validateValue(key, spec, value); err != nil {
		return nil, err
	}

	return &domain.ConfigEntry{
		TenantID:  tenantID,
		ConfigKey: key,
		Scope:     scope,
		BranchID:  branchID,
		Value:     value,
		ValueType: spec.Type,
		UpdatedBy: updatedBy,
	}, nil
}

func resolved(key string, spec KeySpec, raw, source string) *ResolvedValue {
	return &ResolvedValue{
		Key:    key,
		Type:   spec.Type,
		Value:  parseValue(spec, raw),
		Raw:    raw,
		Source: source,
	}
}

func errInvalidValue(key, value, reason string) error {
	return common.ErrBadRequest(fmt.Sprintf("config %s: %q %s", key, value, reason))
}
