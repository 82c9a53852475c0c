package otpsrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

func newIssuer() (*otpsrv.Issuer, *otpinfra.MemoryStore) {
	store := otpinfra.NewMemoryStore()
	return otpsrv.NewIssuer(store, codegen.NewSecure(), otpsrv.DefaultPolicies(), logx.Nop()), store
}

func TestIssuer_AuthExchangeCode(t *testing.T) {
	issuer, _ := newIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, otp.PurposeAuthExchange, "APP.X:user@x.com")
	require.NoError(t, err)
	assert.Len(t, code.Value, 12)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), code.ExpiresAt, time.Second)

	payload, err := issuer.Redeem(ctx, otp.PurposeAuthExchange, code.Value)
	require.NoError(t, err)
	assert.Equal(t, "APP.X:user@x.com", payload)

	_, err = issuer.Redeem(ctx, otp.PurposeAuthExchange, code.Value)
	assert.True(t, errx.HasCode(err, otp.CodeInvalidOrExpired))
}

func TestIssuer_ResetCodeIsSixChars(t *testing.T) {
	issuer, _ := newIssuer()

	code, err := issuer.Issue(context.Background(), otp.PurposePasswordReset, "user.Y")
	require.NoError(t, err)
	assert.Len(t, code.Value, 6)
}

func TestIssuer_CodeIsBoundToPurpose(t *testing.T) {
	issuer, _ := newIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, otp.PurposePasswordReset, "user.Y")
	require.NoError(t, err)

	_, err = issuer.Redeem(ctx, otp.PurposeAuthExchange, code.Value)
	assert.True(t, errx.HasCode(err, otp.CodeInvalidOrExpired))

	payload, err := issuer.Redeem(ctx, otp.PurposePasswordReset, code.Value)
	require.NoError(t, err)
	assert.Equal(t, "user.Y", payload)
}

func TestIssuer_UnknownPurposeAndEmptyCode(t *testing.T) {
	issuer, _ := newIssuer()
	ctx := context.Background()

	_, err := issuer.Issue(ctx, otp.Purpose("EMAIL_CHANGE"), "x")
	assert.True(t, errx.HasCode(err, otp.CodeUnknownPurpose))

	_, err = issuer.Redeem(ctx, otp.PurposeAuthExchange, "")
	assert.True(t, errx.HasCode(err, otp.CodeInvalidOrExpired))
}

func TestIssuer_Revoke(t *testing.T) {
	issuer, store := newIssuer()
	ctx := context.Background()

	code, err := issuer.Issue(ctx, otp.PurposePasswordReset, "user.Y")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, issuer.Revoke(ctx, otp.PurposePasswordReset, code.Value))
	assert.Zero(t, store.Len())
	require.NoError(t, issuer.Revoke(ctx, otp.PurposePasswordReset, code.Value))
}
