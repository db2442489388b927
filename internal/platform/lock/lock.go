// Package lock provides short-lived named locks used to serialize work across
// processes. Callers must treat a lock as advisory.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnpath-backend/internal/pkg/httpx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

var ErrLockTimeout = errors.New("lock wait timed out")

type Locker interface {
	// Lock blocks until key is held, ctx ends or the wait budget runs out.
	// The returned unlock func is never nil.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Nop never contends.
type Nop struct{}

func (Nop) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// releaseScript deletes the key only when it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	log    *logger.Logger
	rdb    goredis.Cmdable
	prefix string
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

// NewRedisLocker holds each lock for at most ttl and waits at most wait to get one.
func NewRedisLocker(log *logger.Logger, rdb goredis.Cmdable, prefix string, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if wait <= 0 {
		wait = ttl
	}
	return &RedisLocker{
		log:    log.With("service", "RedisLocker"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
		poll:   150 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			return func() {}, fmt.Errorf("redis setnx %s: %w", full, err)
		}
		if ok {
			return func() {
				// release must outlive a cancelled request context
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err(); err != nil {
					l.log.Warn("Lock release failed", "key", full, "error", err)
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return func() {}, ErrLockTimeout
		}
		if err := httpx.Sleep(ctx, l.poll); err != nil {
			return func() {}, err
		}
	}
}

// NewRedisClient dials addr and verifies it with a ping.
func NewRedisClient(ctx context.Context, addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
