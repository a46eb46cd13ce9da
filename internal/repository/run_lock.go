package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld reports that another allocation run holds the lock.
var ErrLockHeld = errors.New("allocation lock held")

// releaseScript deletes the key only while it still carries our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// LockClient is the subset of *redis.Client the run lock uses.
type LockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Release gives the lock back.
type Release func(context.Context) error

// RunLock serializes allocation writes. With Redis it spans every API
// replica; without it, it only covers this process.
type RunLock struct {
	client LockClient
	key    string
	ttl    time.Duration
	local  sync.Mutex
}

// NewRunLock builds a lock stored under key. A nil client selects the in-process mutex.
func NewRunLock(client LockClient, key string, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RunLock{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock without waiting. It returns ErrLockHeld when busy.
// The Redis lease expires after the TTL even if Release is never called.
func (l *RunLock) Acquire(ctx context.Context) (Release, error) {
	if l.client == nil {
		if !l.local.TryLock() {
			return nil, ErrLockHeld
		}
		var once sync.Once
		return func(context.Context) error {
			once.Do(l.local.Unlock)
			return nil
		}, nil
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", l.key, err)
		}
		return nil
	}, nil
}
