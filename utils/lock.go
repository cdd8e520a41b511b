// File: utils/lock.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ProviderLock is an advisory lock serializing booking writes for one provider.
// It closes the check-then-insert window between the conflict check and the
// booking insert: two concurrent creates for the same provider take the lock
// in turn, so the second always sees the first's booking.
type ProviderLock struct {
	client *redis.Client
	key    string
	token  string
}

const lockTTL = 10 * time.Second

// AcquireProviderLock takes the booking lock for a provider, retrying until
// the context expires.
func AcquireProviderLock(ctx context.Context, client *redis.Client, providerID string) (*ProviderLock, error) {
	lock := &ProviderLock{
		client: client,
		key:    "booking-lock:" + providerID,
		token:  uuid.New().String(),
	}
	for {
		ok, err := client.SetNX(ctx, lock.key, lock.token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire provider lock: %w", err)
		}
		if ok {
			return lock, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for provider lock: %w", ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by another worker is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release frees the lock. Safe to call after the TTL has lapsed.
func (l *ProviderLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release provider lock: %w", err)
	}
	return nil
}
