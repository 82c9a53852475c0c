package codegen_test

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
)

func TestSecure_CodeLengthAndAlphabet(t *testing.T) {
	g := codegen.NewSecure()
	for _, n := range []int{1, 6, 12, 64} {
		code, err := g.Code(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codegen.DefaultAlphabet, r), "unexpected symbol %q", r)
		}
	}
}

func TestSecure_PublicID(t *testing.T) {
	g := codegen.NewSecure()
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	id, err := g.PublicID(codegen.TenantPrefix, now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^APP\.20240309140507\.[A-Za-z0-9]{8}$`), id)

	sub, err := g.PublicID(codegen.SubjectPrefix, now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub, "user.20240309140507."))
}

func TestSecure_SigningMaterialDecodesToLongKey(t *testing.T) {
	m, err := codegen.NewSecure().SigningMaterial()
	require.NoError(t, err)
	assert.Len(t, m, codegen.SigningMaterialLength)

	key, err := base64.StdEncoding.DecodeString(m)
	require.NoError(t, err)
	assert.Len(t, key, 234)
}

func TestGenerate_CustomAlphabet(t *testing.T) {
	code, err := codegen.Generate(32, "0123456789")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{32}$`, code)
}

func TestGenerate_RoughlyUniform(t *testing.T) {
	const alphabet = "abcd"
	code, err := codegen.Generate(40000, alphabet)
	require.NoError(t, err)

	for _, r := range alphabet {
		n := strings.Count(code, string(r))
		assert.InDelta(t, 10000, n, 600, "symbol %q seen %d times", r, n)
	}
}

func TestGenerate_InvalidArguments(t *testing.T) {
	_, err := codegen.Generate(0, codegen.DefaultAlphabet)
	assert.True(t, errx.HasCode(err, codegen.CodeInvalidArgument))

	_, err = codegen.Generate(8, "a")
	assert.True(t, errx.HasCode(err, codegen.CodeInvalidArgument))
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestSecure_FailsClosedOnEntropyError(t *testing.T) {
	g := codegen.NewSecureFrom(brokenReader{})

	_, err := g.Code(12)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, codegen.CodeEntropy))
}
