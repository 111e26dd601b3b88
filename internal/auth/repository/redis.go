package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOTPStore struct {
	cache *cache.RedisClient
}

func NewRedisOTPStore(c *cache.RedisClient) *RedisOTPStore {
	return &RedisOTPStore{cache: c}
}

func (s *RedisOTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.cache.Client.Set(ctx, otpKeyPrefix+email, code, ttl).Err()
}

func (s *RedisOTPStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.cache.Client, []string{otpKeyPrefix + email}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
