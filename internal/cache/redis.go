package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyTTL = 24 * time.Hour

// Guard backs checkout idempotency with redis SETNX: the first claim on a key
// wins, repeats within the TTL are rejected.
type Guard struct {
	client *redis.Client
}

func NewGuard(addr string) *Guard {
	return &Guard{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *Guard) Claim(ctx context.Context, key string) (bool, error) {
	return g.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
}

func (g *Guard) Close() error {
	return g.client.Close()
}
