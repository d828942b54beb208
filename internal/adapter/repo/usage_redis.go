package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"patungan/internal/domain"
)

// usageKeyTTL keeps finished day keys around long enough for late reads
// before Redis reclaims them. Day rollover itself is handled by the key.
const usageKeyTTL = 48 * time.Hour

// UsageCounterRepositoryRedis implements domain.UsageCounterRepository on a
// shared Redis instance for multi-process deployments. INCR is the atomic
// primitive; an overshoot past the ceiling is immediately compensated with
// DECR, so at most `ceiling` calls ever observe allowed=true.
type UsageCounterRepositoryRedis struct {
	client *redis.Client
}

// NewUsageCounterRedis creates a Redis-backed usage counter repo.
func NewUsageCounterRedis(client *redis.Client) *UsageCounterRepositoryRedis {
	return &UsageCounterRepositoryRedis{client: client}
}

func usageKey(accountID, day string, kind domain.ResourceKind) string {
	return fmt.Sprintf("quota:%s:%s:%s", accountID, kind, day)
}

// Increment atomically bumps the counter and reports whether the call stayed
// under the ceiling.
func (r *UsageCounterRepositoryRedis) Increment(ctx context.Context, accountID, day string, kind domain.ResourceKind, ceiling int) (int, bool, error) {
	if !kind.Valid() {
		return 0, false, fmt.Errorf("unknown resource kind %q", kind)
	}

	key := usageKey(accountID, day, kind)
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("incr usage counter: %w", err)
	}
	if n == 1 {
		r.client.Expire(ctx, key, usageKeyTTL)
	}
	if n > int64(ceiling) {
		if err := r.client.Decr(ctx, key).Err(); err != nil {
			return 0, false, fmt.Errorf("compensate usage counter: %w", err)
		}
		return ceiling, false, nil
	}
	return int(n), true, nil
}

// Count reads the current counter value; 0 when the key does not exist.
func (r *UsageCounterRepositoryRedis) Count(ctx context.Context, accountID, day string, kind domain.ResourceKind) (int, error) {
	n, err := r.client.Get(ctx, usageKey(accountID, day, kind)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
