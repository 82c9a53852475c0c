package otpinfra_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/otp/otpinfra"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("CAUTH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAUTH_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisStore_Contract(t *testing.T) {
	rdb := redisClient(t)
	store := otpinfra.NewRedisStore(rdb, 2*time.Second)

	// Redis owns the clock here, so advancing means waiting.
	runStoreContract(t, store, time.Sleep, "test-"+uuid.NewString()+":")
}

func TestRedisStore_KeyLayout(t *testing.T) {
	rdb := redisClient(t)
	store := otpinfra.NewRedisStore(rdb, 2*time.Second)
	ctx := context.Background()
	key := "auth-code:" + uuid.NewString()

	require.NoError(t, store.Put(ctx, key, "APP.1:user@x.com", 10*time.Minute))

	ttl, err := rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)

	raw, err := rdb.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "APP.1:user@x.com", raw)
}

func TestRedisStore_UnreachableServerIsTransient(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	store := otpinfra.NewRedisStore(rdb, 300*time.Millisecond)

	_, _, err := store.GetAndDelete(context.Background(), "auth-code:x")
	require.Error(t, err)
	assert.True(t, errx.IsType(err, errx.TypeUnavailable), "got %v", err)
}
