package otpinfra

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps codes in Redis. Expiry is Redis TTL; redemption is a
// single GETDEL.
type RedisStore struct {
	rdb     redis.Cmdable
	timeout time.Duration

	// noGetDel is set once the server rejects GETDEL (Redis < 6.2).
	noGetDel atomic.Bool
}

var _ otp.Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, timeout time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, timeout: timeout}
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errx.Validation("ttl must be positive").WithDetail("ttl", ttl.String())
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return errx.Storage(err, "store one-time code")
	}
	return nil
}

func (s *RedisStore) GetAndDelete(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var (
		value string
		err   error
	)
	if s.noGetDel.Load() {
		value, err = takeScript.Run(ctx, s.rdb, []string{key}).Text()
	} else {
		value, err = s.rdb.GetDel(ctx, key).Result()
		if isUnknownCommand(err) {
			s.noGetDel.Store(true)
			value, err = takeScript.Run(ctx, s.rdb, []string{key}).Text()
		}
	}

	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, errx.Storage(err, "redeem one-time code")
	}
	return value, true, nil
}

func (s *RedisStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// takeScript is GETDEL for servers that predate it. A script runs
// atomically, so the read and delete cannot interleave with another
// caller.
var takeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v then
	redis.call('DEL', KEYS[1])
end
return v
`)

func isUnknownCommand(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unknown command")
}
