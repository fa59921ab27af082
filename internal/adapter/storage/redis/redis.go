package redis

import (
	"context"
	"fmt"

	"shielded-nft/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces every key the ledger writes, so one Redis can be
// shared with other services.
const keyPrefix = "snft:"

// NewClient connects to the Redis instance that backs relayer nonces, rate
// limits and, optionally, the distributed record lock.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:       cfg.Addr(),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: "shielded-nft",
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis %s: %w", cfg.Addr(), err)
	}

	log.Debug().Str("addr", cfg.Addr()).Int("db", cfg.DB).Msg("redis client ready")
	return client, nil
}

// Checker is the ports.HealthChecker for the Redis dependency.
type Checker struct {
	client goredis.UniversalClient
}

func NewChecker(client goredis.UniversalClient) *Checker {
	return &Checker{client: client}
}

func (c *Checker) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Checker) Name() string { return "redis" }
