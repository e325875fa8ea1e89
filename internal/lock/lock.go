// Package lock provides a Redis-backed lease lock used to serialize
// booking creation per room type across server instances.  The lease
// is an optimization on top of the database row lock: when Redis is
// unreachable the locker degrades to a no-op and the transaction's
// SELECT ... FOR UPDATE remains the correctness guarantee.
package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// retryEvery is how often Acquire re-attempts SETNX while the lease is
// held by another worker.
const retryEvery = 25 * time.Millisecond

// releaseScript deletes the lease only when it still carries our
// token, so an expired lease re-acquired by someone else is never
// released by the previous holder.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisLocker implements booking.Locker on top of a Redis client.
type RedisLocker struct {
	rdb *redis.Client
}

// NewRedisLocker returns a locker bound to the given client.  A nil
// client yields a locker whose Acquire is a no-op.
func NewRedisLocker(rdb *redis.Client) *RedisLocker { return &RedisLocker{rdb: rdb} }

// Acquire takes the lease named by key with the given TTL, blocking
// until it is obtained or ctx ends.  The returned function releases
// the lease; it is safe to call after the TTL elapsed.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l == nil || l.rdb == nil {
		return func() {}, nil
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(buf)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			// Redis being down must not block bookings; the DB row
			// lock still serializes the check-then-insert.
			return func() {}, nil
		}
		if ok {
			release := func() {
				rctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
			}
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryEvery):
		}
	}
}
