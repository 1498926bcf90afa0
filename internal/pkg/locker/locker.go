// Package locker provides short lived mutual exclusion across API instances.
package locker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("locker: resource is locked")

type ILocker interface {
	// Acquire returns a release func, or ErrLocked when another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

type redisLocker struct {
	rdb *redis.Client
}

// Compare-and-delete so a holder whose TTL already expired cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisLocker falls back to a no-op locker when rdb is nil.
func NewRedisLocker(rdb *redis.Client) ILocker {
	if rdb == nil {
		return NewNopLocker()
	}
	return &redisLocker{rdb: rdb}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		releaseScript.Run(context.Background(), l.rdb, []string{key}, token)
	}, nil
}

type nopLocker struct{}

func NewNopLocker() ILocker {
	return nopLocker{}
}

func (nopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	return func() {}, nil
}

func PaymentKey(userID, courseID uuid.UUID) string {
	return "payment:lock:" + userID.String() + ":" + courseID.String()
}
