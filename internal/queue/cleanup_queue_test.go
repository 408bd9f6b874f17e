package queue_test

import (
	"context"
	"testing"
	"time"

	"running-events-backend/internal/model"
	"running-events-backend/internal/queue"
	"running-events-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob() *model.CleanupJob {
	return &model.CleanupJob{
		ID:          uuid.New(),
		Options:     model.CleanupOptions{BySlug: true, Keep: model.KeepOldest, MinSimilarity: 80, Force: true},
		Status:      model.CleanupJobQueued,
		RequestedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func receive(t *testing.T, msgs <-chan queue.Delivery, timeout time.Duration) queue.Delivery {
	t.Helper()
	select {
	case d, ok := <-msgs:
		require.True(t, ok, "channel closed")
		return d
	case <-time.After(timeout):
		t.Fatal("timed out waiting for delivery")
	}
	return queue.Delivery{}
}

func TestCleanupQueue_Memory(t *testing.T) {
	t.Run("Success - delivers published job", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewCleanupQueue(4)
		job := newJob()
		require.NoError(t, q.PublishJob(ctx, job))

		msgs, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		d := receive(t, msgs, time.Second)
		assert.Equal(t, job.ID, d.Data.ID)
		d.Ack()
	})

	t.Run("Success - nack with requeue delivers again", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewCleanupQueue(1)
		job := newJob()
		require.NoError(t, q.PublishJob(ctx, job))

		msgs, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		first := receive(t, msgs, time.Second)
		first.Nack(true)
		second := receive(t, msgs, time.Second)
		assert.Equal(t, job.ID, second.Data.ID)
	})

	t.Run("Failed - publish respects context when buffer is full", func(t *testing.T) {
		q := queue.NewCleanupQueue(1)
		require.NoError(t, q.PublishJob(context.Background(), newJob()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := q.PublishJob(ctx, newJob())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Success - subscription closes with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		q := queue.NewCleanupQueue(1)
		msgs, err := q.SubscribeJobs(ctx)
		require.NoError(t, err)

		cancel()
		select {
		case _, ok := <-msgs:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscription did not close")
		}
	})
}

func TestRedisStreamCleanupQueue(t *testing.T) {
	rdb := testutil.RequireRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q, err := queue.NewRedisStreamCleanupQueue(ctx, rdb, "test-consumer", &queue.RedisStreamCleanupQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	// 重複建立 consumer group 不算錯誤
	_, err = queue.NewRedisStreamCleanupQueue(ctx, rdb, "", nil)
	require.NoError(t, err)

	job := newJob()
	require.NoError(t, q.PublishJob(ctx, job))

	msgs, err := q.SubscribeJobs(ctx)
	require.NoError(t, err)

	d := receive(t, msgs, 3*time.Second)
	assert.Equal(t, job.ID, d.Data.ID)
	assert.True(t, d.Data.Options.Force)
	assert.Equal(t, model.KeepOldest, d.Data.Options.Keep)

	// 未 ack 的工作會被 XAUTOCLAIM 領回
	d.Nack(true)
	again := receive(t, msgs, 3*time.Second)
	assert.Equal(t, job.ID, again.Data.ID)
	again.Ack()

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestRedisStreamCleanupQueue_DiscardAfterMaxRetries(t *testing.T) {
	rdb := testutil.RequireRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	discarded := make(chan uuid.UUID, 1)
	q, err := queue.NewRedisStreamCleanupQueue(ctx, rdb, "discard-consumer", &queue.RedisStreamCleanupQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 100 * time.Millisecond,
		MaxRetryCount:      2,
		OnDiscard: func(ctx context.Context, job *model.CleanupJob, retries int) {
			discarded <- job.ID
		},
	})
	require.NoError(t, err)

	job := newJob()
	require.NoError(t, q.PublishJob(ctx, job))

	msgs, err := q.SubscribeJobs(ctx)
	require.NoError(t, err)

	d := receive(t, msgs, 3*time.Second)
	d.Nack(true)

	select {
	case id := <-discarded:
		assert.Equal(t, job.ID, id)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not discarded")
	}

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}
