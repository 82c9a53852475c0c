package otpinfra_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/iam/otp"
)

// runStoreContract exercises the behaviour every otp.Store must have.
// advance moves the store's notion of time forward.
func runStoreContract(t *testing.T, store otp.Store, advance func(time.Duration), keyPrefix string) {
	ctx := context.Background()

	t.Run("redeems exactly once", func(t *testing.T) {
		key := keyPrefix + otp.PurposeAuthExchange.Key("once")
		require.NoError(t, store.Put(ctx, key, "APP.1:user@x.com", time.Minute))

		v, found, err := store.GetAndDelete(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "APP.1:user@x.com", v)

		_, found, err = store.GetAndDelete(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		_, found, err := store.GetAndDelete(ctx, keyPrefix+"never-written")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("put overwrites", func(t *testing.T) {
		key := keyPrefix + otp.PurposePasswordReset.Key("dup")
		require.NoError(t, store.Put(ctx, key, "first", time.Minute))
		require.NoError(t, store.Put(ctx, key, "second", time.Minute))

		v, found, err := store.GetAndDelete(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "second", v)
	})

	t.Run("purposes do not collide", func(t *testing.T) {
		auth := keyPrefix + otp.PurposeAuthExchange.Key("same")
		reset := keyPrefix + otp.PurposePasswordReset.Key("same")
		require.NoError(t, store.Put(ctx, auth, "a", time.Minute))
		require.NoError(t, store.Put(ctx, reset, "r", time.Minute))

		v, _, _ := store.GetAndDelete(ctx, reset)
		assert.Equal(t, "r", v)
		v, _, _ = store.GetAndDelete(ctx, auth)
		assert.Equal(t, "a", v)
	})

	t.Run("expired entries are unreachable", func(t *testing.T) {
		key := keyPrefix + otp.PurposeAuthExchange.Key("expiring")
		require.NoError(t, store.Put(ctx, key, "v", time.Second))

		advance(1500 * time.Millisecond)

		_, found, err := store.GetAndDelete(ctx, key)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, keyPrefix+"zero", "v", 0))
	})

	t.Run("concurrent redeemers see one winner", func(t *testing.T) {
		const racers = 50
		const rounds = 100

		for round := 0; round < rounds; round++ {
			key := keyPrefix + otp.PurposeAuthExchange.Key(fmt.Sprintf("race-%d", round))
			require.NoError(t, store.Put(ctx, key, "payload", time.Minute))

			var (
				wins  atomic.Int32
				fails atomic.Int32
				wg    sync.WaitGroup
				start = make(chan struct{})
			)
			wg.Add(racers)
			for i := 0; i < racers; i++ {
				go func() {
					defer wg.Done()
					<-start
					v, found, err := store.GetAndDelete(ctx, key)
					if err != nil {
						fails.Add(1)
						return
					}
					if found && v == "payload" {
						wins.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			require.Zero(t, fails.Load(), "round %d: store errors", round)
			require.Equal(t, int32(1), wins.Load(), "round %d: winners", round)
		}
	})
}
