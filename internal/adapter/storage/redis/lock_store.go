package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shielded-nft/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore implements ports.KeyedLocker across processes sharing one Redis.
type LockStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	log    zerolog.Logger
}

// NewLockStore creates a distributed lock. ttl bounds how long a crashed
// holder can block a key.
func NewLockStore(client *goredis.Client, ttl time.Duration, log zerolog.Logger) *LockStore {
	return &LockStore{
		client: client,
		prefix: keyPrefix + "lock:",
		ttl:    ttl,
		retry:  20 * time.Millisecond,
		log:    log,
	}
}

// Lock polls SET NX until the key is free or ctx is done.
func (s *LockStore) Lock(ctx context.Context, key string) (ports.Unlock, error) {
	redisKey := s.prefix + key
	token := uuid.NewString()

	for {
		result, err := s.client.SetArgs(ctx, redisKey, token, goredis.SetArgs{
			Mode: "NX",
			TTL:  s.ttl,
		}).Result()
		if err == nil && result == "OK" {
			return s.unlockFunc(redisKey, token), nil
		}
		if err != nil && !errors.Is(err, goredis.Nil) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}

		timer := time.NewTimer(s.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *LockStore) unlockFunc(redisKey, token string) ports.Unlock {
	return func() {
		if err := releaseScript.Run(context.Background(), s.client, []string{redisKey}, token).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", redisKey).Msg("failed to release lock")
		}
	}
}
