package asyncx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/asyncx"
)

func TestAllSettled_KeepsOrderAndErrors(t *testing.T) {
	boom := errors.New("boom")
	results := asyncx.AllSettled(context.Background(),
		func(context.Context) (int, error) { time.Sleep(10 * time.Millisecond); return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context) (int, error) { return 3, nil },
	)

	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Value)
	assert.True(t, results[0].OK())
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, 3, results[2].Value)
}

func TestChecks_RunConcurrently(t *testing.T) {
	var running, peak atomic.Int32
	slow := func(context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return nil
	}
	down := errors.New("connection refused")

	got := asyncx.Checks(context.Background(), map[string]func(context.Context) error{
		"db":    slow,
		"redis": slow,
		"mail":  func(context.Context) error { return down },
	})

	assert.Len(t, got, 3)
	assert.NoError(t, got["db"])
	assert.NoError(t, got["redis"])
	assert.ErrorIs(t, got["mail"], down)
	assert.Equal(t, int32(2), peak.Load())
}

func TestChecks_Empty(t *testing.T) {
	assert.Empty(t, asyncx.Checks(context.Background(), nil))
}
