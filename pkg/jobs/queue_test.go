package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, q *Queue, id string, want State) Status {
	t.Helper()
	var st Status
	require.Eventually(t, func() bool {
		var ok bool
		st, ok = q.Status(id)
		return ok && st.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return st
}

func TestQueueRecordsSuccess(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		return map[string]int{"placed": 3}, nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(Job{Type: "rooms"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	st := waitForState(t, q, id, StateSucceeded)
	assert.Equal(t, "rooms", st.Type)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, map[string]int{"placed": 3}, st.Result)
	assert.NotNil(t, st.FinishedAt)
}

func TestQueueRetriesThenSucceeds(t *testing.T) {
	var calls int32
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("lock held")
		}
		return "ok", nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(Job{ID: "run-1", Type: "oasis"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)

	st := waitForState(t, q, id, StateSucceeded)
	assert.Equal(t, 3, st.Attempts)
	assert.Empty(t, st.Error)
}

func TestQueueMarksFailureAfterRetries(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) {
		return nil, errors.New("database down")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(Job{Type: "all"})
	require.NoError(t, err)

	st := waitForState(t, q, id, StateFailed)
	assert.Equal(t, 2, st.Attempts)
	assert.Equal(t, "database down", st.Error)
}

func TestEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) (interface{}, error) { return nil, nil }, QueueConfig{})
	_, err := q.Enqueue(Job{Type: "rooms"})
	assert.Error(t, err)
	_, ok := q.Status("missing")
	assert.False(t, ok)
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) (interface{}, error) { return nil, nil }, QueueConfig{HistoryLimit: 1})
	q.Start(context.Background())
	defer q.Stop()

	first, err := q.Enqueue(Job{Type: "rooms"})
	require.NoError(t, err)
	waitForState(t, q, first, StateSucceeded)
	second, err := q.Enqueue(Job{Type: "rooms"})
	require.NoError(t, err)
	waitForState(t, q, second, StateSucceeded)

	_, ok := q.Status(first)
	assert.False(t, ok)
}
