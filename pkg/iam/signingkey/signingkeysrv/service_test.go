package signingkeysrv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey/signingkeyinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/signingkey/signingkeysrv"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

const tenantA = kernel.TenantID("APP.20240101000000.aaaaaaaa")

func newRegistry() *signingkeysrv.Registry {
	return signingkeysrv.NewRegistry(signingkeyinfra.NewMemorySigningKeyRepository(), codegen.NewSecure(), logx.Nop())
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	created, err := reg.Create(ctx, tenantA)
	require.NoError(t, err)
	assert.Len(t, created.Material, codegen.SigningMaterialLength)

	hmacKey, err := created.HMACKey()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(hmacKey)*8, 256)

	got, err := reg.Get(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, created.Material, got.Material)
	assert.NotContains(t, got.String(), got.Material)
}

func TestRegistry_CreateTwiceConflicts(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	_, err := reg.Create(ctx, tenantA)
	require.NoError(t, err)

	_, err = reg.Create(ctx, tenantA)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, signingkey.CodeAlreadyExists))
	assert.True(t, errx.IsType(err, errx.TypeConflict))
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := newRegistry().Get(context.Background(), tenantA)
	assert.True(t, errx.HasCode(err, signingkey.CodeNotFound))
}

func TestRegistry_RotateReplacesMaterial(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	before, err := reg.Create(ctx, tenantA)
	require.NoError(t, err)

	after, err := reg.Rotate(ctx, tenantA)
	require.NoError(t, err)
	assert.NotEqual(t, before.Material, after.Material)
	require.NotNil(t, after.RotatedAt)

	current, err := reg.Get(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, after.Material, current.Material)

	_, err = reg.Rotate(ctx, "APP.unknown")
	assert.True(t, errx.HasCode(err, signingkey.CodeNotFound))
}

func TestRegistry_DeleteIsIdempotent(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	_, err := reg.Create(ctx, tenantA)
	require.NoError(t, err)

	removed, err := reg.Delete(ctx, tenantA)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = reg.Delete(ctx, tenantA)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = reg.Get(ctx, tenantA)
	assert.True(t, errx.HasCode(err, signingkey.CodeNotFound))
}

func TestSigningKey_MalformedMaterial(t *testing.T) {
	k := signingkey.SigningKey{TenantID: tenantA, Material: "not base64!"}
	_, err := k.HMACKey()
	assert.True(t, errx.HasCode(err, signingkey.CodeMalformed))
}
