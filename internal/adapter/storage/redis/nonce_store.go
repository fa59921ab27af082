package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore. A nonce is claimed with SET NX, so
// concurrent replicas agree on which request saw it first.
type NonceStore struct {
	client goredis.UniversalClient
}

func NewNonceStore(client goredis.UniversalClient) *NonceStore {
	return &NonceStore{client: client}
}

func nonceKey(scope, nonce string) string {
	return keyPrefix + "nonce:" + scope + ":" + nonce
}

// CheckAndSet claims nonce in scope for ttl. It returns false when the nonce
// is still held from an earlier call.
func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, nonceKey(scope, nonce), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claiming %s nonce: %w", scope, err)
	}
	return claimed, nil
}
