package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLockLocalFallback(t *testing.T) {
	lock := NewRunLock(nil, "lock", time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "double release is harmless")

	again, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRunLockRedis(t *testing.T) {
	client := newFakeRedis()
	lock := NewRunLock(client, "room-allocation:lock", 10*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, client.ttls["room-allocation:lock"])

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, release(ctx))
	_, held := client.values["room-allocation:lock"]
	assert.False(t, held)
}

func TestRunLockReleaseKeepsForeignLease(t *testing.T) {
	client := newFakeRedis()
	lock := NewRunLock(client, "k", time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	// lease expired and another replica took it
	client.values["k"] = "someone-else"
	require.NoError(t, release(ctx))
	assert.Equal(t, "someone-else", client.values["k"])
}

func TestRunLockRedisError(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("timeout")

	_, err := NewRunLock(client, "k", time.Second).Acquire(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockHeld)
}
