package tenantinfra_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/dbx/dbxtest"
	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey/signingkeyinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant/tenantinfra"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

func sample(publicID, name string) tenant.Tenant {
	return tenant.Tenant{
		ID:           uuid.New(),
		PublicID:     kernel.TenantID(publicID),
		OwnerRef:     "org@example.com",
		HashedSecret: "$argon2id$hash",
		Name:         name,
		CallbackURLs: []string{"https://acme.test/a", "https://acme.test/b"},
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgresTenantRepository(t *testing.T) {
	db := dbxtest.Open(t)
	repo := tenantinfra.NewPostgresTenantRepository(db, 3*time.Second)
	keys := signingkeyinfra.NewPostgresSigningKeyRepository(db, 3*time.Second)
	ctx := context.Background()

	acme := sample("APP.20240101000000.aaaaaaaa", "acme")
	require.NoError(t, repo.Create(ctx, acme))

	err := repo.Create(ctx, sample("APP.20240101000000.bbbbbbbb", "acme"))
	assert.True(t, errx.HasCode(err, tenant.CodeNameTaken))

	err = repo.Create(ctx, sample("APP.20240101000000.aaaaaaaa", "other"))
	assert.True(t, errx.HasCode(err, tenant.CodePublicIDCollision))

	got, err := repo.FindByPublicID(ctx, acme.PublicID)
	require.NoError(t, err)
	assert.Equal(t, acme.CallbackURLs, got.CallbackURLs)
	assert.True(t, acme.RegisteredAt.Equal(got.RegisteredAt))

	byName, err := repo.FindByName(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, acme.PublicID, byName.PublicID)

	globex := sample("APP.20240101000000.cccccccc", "globex")
	require.NoError(t, repo.Create(ctx, globex))

	renamed := *got
	renamed.Name = "globex"
	assert.True(t, errx.HasCode(repo.Update(ctx, renamed), tenant.CodeNameTaken))

	renamed.Name = "acme-2"
	renamed.CallbackURLs = nil
	require.NoError(t, repo.Update(ctx, renamed))
	got, err = repo.FindByPublicID(ctx, acme.PublicID)
	require.NoError(t, err)
	assert.Equal(t, "acme-2", got.Name)
	assert.Empty(t, got.CallbackURLs)

	page, err := repo.ListByOwner(ctx, "org@example.com", kernel.PaginationOptions{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Total)
	assert.Len(t, page.Items, 1)

	require.NoError(t, keys.Create(ctx, signingkey.SigningKey{TenantID: acme.PublicID, Material: "abc", CreatedAt: time.Now()}))
	removed, err := repo.Delete(ctx, acme.PublicID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = keys.FindByTenant(ctx, acme.PublicID)
	assert.True(t, errx.HasCode(err, signingkey.CodeNotFound), "key must cascade with its tenant")

	removed, err = repo.Delete(ctx, acme.PublicID)
	require.NoError(t, err)
	assert.False(t, removed)
}
