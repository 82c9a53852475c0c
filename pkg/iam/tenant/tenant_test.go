package tenant_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/ptrx"
)

func TestApplyChanges(t *testing.T) {
	base := tenant.Tenant{
		PublicID:     "APP.20240101000000.abcdefgh",
		OwnerRef:     "org@example.com",
		HashedSecret: "old-hash",
		Name:         "acme",
		CallbackURLs: []string{"https://acme.test/cb"},
		RegisteredAt: time.Unix(0, 0),
	}

	urls := []string{"https://acme.test/a", "https://acme.test/b"}
	got := tenant.ApplyChanges(base, tenant.Changes{
		Name:         ptrx.To("  acme-2 "),
		HashedSecret: ptrx.To("new-hash"),
		CallbackURLs: &urls,
	})

	assert.Equal(t, "acme-2", got.Name)
	assert.Equal(t, "new-hash", got.HashedSecret)
	assert.Equal(t, urls, got.CallbackURLs)
	assert.Equal(t, base.PublicID, got.PublicID)
	assert.Equal(t, base.OwnerRef, got.OwnerRef)
	assert.Equal(t, "acme", base.Name, "input must not be mutated")

	urls[0] = "https://mutated.test"
	assert.Equal(t, "https://acme.test/a", got.CallbackURLs[0], "result must not alias the patch slice")

	same := tenant.ApplyChanges(base, tenant.Changes{})
	assert.Equal(t, base, same)
}

func TestPatch_Validate(t *testing.T) {
	assert.True(t, errx.HasCode(tenant.Patch{}.Validate(), tenant.CodeInvalidInput))
	assert.True(t, errx.HasCode(tenant.Patch{Name: ptrx.To(" ")}.Validate(), tenant.CodeInvalidInput))
	assert.True(t, errx.HasCode(tenant.Patch{Secret: ptrx.To("")}.Validate(), tenant.CodeInvalidInput))

	bad := []string{"javascript:alert(1)"}
	assert.True(t, errx.HasCode(tenant.Patch{CallbackURLs: &bad}.Validate(), tenant.CodeInvalidInput))

	good := []string{"https://acme.test/cb", "http://localhost:3000/cb"}
	assert.NoError(t, tenant.Patch{CallbackURLs: &good}.Validate())
}

func TestRegisterRequest_Validate(t *testing.T) {
	ok := tenant.RegisterRequest{OwnerRef: "org-1", Name: "acme", Secret: "s3cret123"}
	assert.NoError(t, ok.Validate())

	noOwner := ok
	noOwner.OwnerRef = ""
	assert.Error(t, noOwner.Validate())

	noSecret := ok
	noSecret.Secret = ""
	assert.Error(t, noSecret.Validate())
}

func TestToView_HidesSecret(t *testing.T) {
	v := tenant.ToView(tenant.Tenant{Name: "acme", HashedSecret: "$argon2id$..."})
	assert.Equal(t, "acme", v.Name)
	assert.NotNil(t, v.CallbackURLs)
}
