// Package redisguard leases confirmation processing per order across
// replicas. The lease is best effort: it narrows the window between the
// durable sale-exists check and the sale write, it does not replace them.
package redisguard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leaseKeyPrefix = "confirm:lease:"

// releaseScript deletes the lease only if this process still holds it, so a
// slow holder cannot drop a lease that already expired and was re-acquired.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type Guard struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string // orderID -> lease token held by this process
}

func New(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Guard{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

// Acquire takes the order's lease with a fresh token. Returns false when
// another holder has it.
func (g *Guard) Acquire(ctx context.Context, orderID string) (bool, error) {
	tok := uuid.NewString()

	ok, err := g.client.SetNX(ctx, leaseKeyPrefix+orderID, tok, g.ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	g.tokens[orderID] = tok
	g.mu.Unlock()
	return true, nil
}

// Release drops the lease if this process still holds it.
func (g *Guard) Release(ctx context.Context, orderID string) error {
	g.mu.Lock()
	tok, ok := g.tokens[orderID]
	delete(g.tokens, orderID)
	g.mu.Unlock()

	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, g.client, []string{leaseKeyPrefix + orderID}, tok).Err()
}
