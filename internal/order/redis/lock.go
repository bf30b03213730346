package redis

import (
	"context"
	"fmt"
	"time"

	"ms-events/internal/logger"

	"github.com/go-redis/redis/v8"
)

const lockKeyPrefix = "order_lock:"

// unlockScript deletes the key only while it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis guards order completion so that two requests for the same order
// cannot run the completion transaction side by side.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{Client: client, TTL: ttl, Logger: log}
}

func lockKey(orderID string) string {
	return lockKeyPrefix + orderID
}

// LockOrder reports false without error when another owner holds the lock.
func (r *Redis) LockOrder(ctx context.Context, orderID, owner string) (bool, error) {
	ok, err := r.Client.SetNX(ctx, lockKey(orderID), owner, r.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock order %s: %w", orderID, err)
	}
	return ok, nil
}

// UnlockOrder releases the lock if owner still holds it. An expired lock is not an error.
func (r *Redis) UnlockOrder(ctx context.Context, orderID, owner string) error {
	n, err := unlockScript.Run(ctx, r.Client, []string{lockKey(orderID)}, owner).Int()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("unlock order %s: %w", orderID, err)
	}
	if n == 0 && r.Logger != nil {
		r.Logger.Debug("REDIS", "order lock for "+orderID+" already released")
	}
	return nil
}

// IsLocked is used by diagnostics and tests.
func (r *Redis) IsLocked(ctx context.Context, orderID string) (bool, error) {
	n, err := r.Client.Exists(ctx, lockKey(orderID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
