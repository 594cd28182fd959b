package service

import (
	"context"
	"testing"

	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTenantService(t *testing.T) (*TenantService, *subscriptionFixture) {
	t.Helper()
	f := setupSubscriptionFixture(t)
	require.NoError(t, f.db.AutoMigrate(&domain.Tenant{}, &domain.User{}))

	svc := NewTenantService(
		repository.NewTenantRepository(f.db),
		repository.NewUserRepository(f.db),
		f.svc,
		f.db,
	)
	return svc, f
}

func TestProvisionTenant(t *testing.T) {
	svc, f := setupTenantService(t)

	resp, err := svc.Provision(context.Background(), &domain.ProvisionRequest{
		Name:       "Springfield High",
		Subdomain:  "springfield",
		OwnerEmail: "owner@springfield.test",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TenantID)
	assert.Equal(t, "springfield", resp.Subdomain)
	assert.Equal(t, domain.PlanFree, resp.Plan)
	assert.Equal(t, domain.SubscriptionTrialing, resp.Status)
	assert.NotEmpty(t, resp.TrialEndsAt)

	var owner domain.User
	require.NoError(t, f.db.Where("email = ?", "owner@springfield.test").First(&owner).Error)
	assert.Equal(t, resp.TenantID, owner.TenantID)
	assert.Equal(t, domain.RoleOwner, owner.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("correct-horse")))

	var sub domain.Subscription
	require.NoError(t, f.db.Where("tenant_id = ?", resp.TenantID).First(&sub).Error)
	assert.Equal(t, domain.SubscriptionTrialing, sub.Status)
}

func TestProvisionRejectsDuplicates(t *testing.T) {
	svc, _ := setupTenantService(t)
	ctx := context.Background()

	req := &domain.ProvisionRequest{
		Name:       "Springfield High",
		Subdomain:  "springfield",
		OwnerEmail: "owner@springfield.test",
		Password:   "correct-horse",
	}
	_, err := svc.Provision(ctx, req)
	require.NoError(t, err)

	_, err = svc.Provision(ctx, &domain.ProvisionRequest{
		Name:       "Shelbyville High",
		Subdomain:  "springfield",
		OwnerEmail: "other@shelbyville.test",
		Password:   "correct-horse",
	})
	require.Error(t, err, "duplicate subdomain")

	_, err = svc.Provision(ctx, &domain.ProvisionRequest{
		Name:       "Shelbyville High",
		Subdomain:  "shelbyville",
		OwnerEmail: "owner@springfield.test",
		Password:   "correct-horse",
	})
	require.Error(t, err, "duplicate owner email")
}
