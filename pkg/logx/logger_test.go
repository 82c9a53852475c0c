package logx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/logx"
)

func newBufferLogger(format logx.Format) (*logx.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Format = format
	cfg.EnableColors = false
	cfg.EnableTimestamp = false
	cfg.Level = "debug"
	cfg.Output = buf
	return logx.New(cfg), buf
}

func TestLogger_JSONRedactsSensitiveFields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON)

	logger.WithFields(logx.Fields{
		"tenant_id":     "APP.20240101000000.abcdefgh",
		"client_secret": "hunter2",
		"auth_code":     "Zx9Qp2Lm0aB1",
	}).Info("code issued")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "code issued", out["message"])
	assert.Equal(t, "INFO", out["level"])
	assert.Equal(t, "APP.20240101000000.abcdefgh", out["tenant_id"])
	assert.Equal(t, "[REDACTED]", out["client_secret"])
	assert.Equal(t, "[REDACTED]", out["auth_code"])
}

func TestLogger_WithBindsFields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole)

	logger.With(logx.Fields{"component": "issuance"}).
		WithError(errors.New("boom")).
		Warn("exchange failed")

	line := buf.String()
	assert.Contains(t, line, "[WARN ]")
	assert.Contains(t, line, "component=issuance")
	assert.Contains(t, line, "error: boom")
}

func TestLogger_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := logx.DefaultConfig()
	cfg.Level = "warn"
	cfg.Output = buf
	logger := logx.New(cfg)

	logger.Info("dropped")
	logger.Debug("dropped")
	assert.Zero(t, buf.Len())

	logger.Error("kept")
	assert.True(t, strings.Contains(buf.String(), "kept"))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logx.Nop().WithField("k", "v").Error("nothing")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("warning"))
	assert.Equal(t, logx.LevelOff, logx.ParseLevel("OFF"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel("nonsense"))
	assert.False(t, logx.LevelOff.Enabled(logx.LevelError))
}
