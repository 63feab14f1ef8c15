package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/poll"
)

// Release gives a lease back. It is safe to call more than once.
type Release func()

// Locker serializes turns per session. Acquire waits by bounded polling and returns ErrConflict
// when the lease stays busy for the whole attempt budget.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// LocalLocker is an in-process keyed try-lock, used when no redis is configured
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
	opts poll.Options
}

func NewLocalLocker(opts poll.Options) *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{}), opts: opts}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (Release, error) {
	err := poll.Until(ctx, l.opts, func(context.Context) (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, busy := l.held[key]; busy {
			return false, nil
		}
		l.held[key] = struct{}{}
		return true, nil
	})
	if err != nil {
		return nil, leaseErr(key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const leaseKeyPrefix = "interview:lease:"

// RedisLocker holds leases as SET NX keys with a TTL, so a crashed holder cannot block a
// session for longer than the TTL.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	opts   poll.Options
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, opts poll.Options) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, opts: opts}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	redisKey := leaseKeyPrefix + key
	token := uuid.NewString()

	err := poll.Until(ctx, l.opts, func(ctx context.Context) (bool, error) {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return false, persistErr("acquire lease", err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, leaseErr(key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
		})
	}, nil
}

// Ping checks the redis connection
func (l *RedisLocker) Ping(ctx context.Context) error {
	return persistErr("ping redis", l.client.Ping(ctx).Err())
}

func leaseErr(key string, err error) error {
	if errors.Is(err, poll.ErrMaxAttempts) {
		return fmt.Errorf("%w: lease for %s is busy", ErrConflict, key)
	}
	return err
}
