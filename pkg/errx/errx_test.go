package errx_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var (
	reg         = errx.NewRegistry("WIDGET")
	codeMissing = reg.Register("MISSING", errx.TypeNotFound, http.StatusNotFound, "Widget not found")
	codeBusy    = reg.Register("BUSY", errx.TypeUnavailable, 0, "Widget store busy")
)

func TestRegistry_PrefixesCodesAndDefaultsStatus(t *testing.T) {
	assert.Equal(t, "WIDGET_MISSING", codeMissing.Code)
	assert.Equal(t, http.StatusServiceUnavailable, codeBusy.HTTPStatus)

	got, ok := reg.Get("MISSING")
	require.True(t, ok)
	assert.Same(t, codeMissing, got)

	assert.Panics(t, func() { reg.Register("MISSING", errx.TypeNotFound, 0, "again") })
}

func TestHasCode_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("lookup: %w", reg.New(codeMissing))

	assert.True(t, errx.HasCode(err, codeMissing))
	assert.False(t, errx.HasCode(err, codeBusy))
	assert.False(t, errx.HasCode(errors.New("plain"), codeMissing))
	assert.Equal(t, errx.TypeNotFound, errx.TypeOf(err))
	assert.Equal(t, errx.TypeInternal, errx.TypeOf(errors.New("plain")))
	assert.False(t, errx.IsType(nil, errx.TypeInternal))
}

func TestStorage_ClassifiesTransientFailures(t *testing.T) {
	assert.Nil(t, errx.Storage(nil, "noop"))

	timeout := errx.Storage(fmt.Errorf("query: %w", context.DeadlineExceeded), "find widget")
	assert.Equal(t, errx.TypeUnavailable, timeout.Type)
	assert.True(t, timeout.Type.Retryable())
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	logical := errx.Storage(errors.New("syntax error"), "find widget")
	assert.Equal(t, errx.TypeInternal, logical.Type)
	assert.False(t, logical.Type.Retryable())
}

func TestWrap_KeepsRegisteredCode(t *testing.T) {
	wrapped := errx.Wrap(reg.New(codeMissing).WithDetail("id", "w-1"), "load failed", errx.TypeNotFound)

	assert.Equal(t, codeMissing.Code, wrapped.Code)
	assert.Equal(t, "w-1", wrapped.Details["id"])
}

func TestMarshalJSON_OmitsCause(t *testing.T) {
	err := reg.NewWithCause(codeBusy, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	raw, jerr := json.Marshal(err)
	require.NoError(t, jerr)
	assert.Contains(t, string(raw), "WIDGET_BUSY")
	assert.NotContains(t, string(raw), "10.0.0.1")
}
