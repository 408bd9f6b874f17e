package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"running-events-backend/internal/model"
	"running-events-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "events:cleanup:stream"
	ConsumerGroupName  = "cleanup-workers"
	ConsumerNamePrefix = "worker"

	jobField = "job"
)

// DiscardFunc 工作超過重試次數被丟棄時呼叫
type DiscardFunc func(ctx context.Context, job *model.CleanupJob, retries int)

// RedisStreamCleanupQueueConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamCleanupQueueConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 投遞次數達到此值的工作不再執行
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
	OnDiscard          DiscardFunc
}

// 清理一次可能跑數分鐘，領回門檻比一般訊息長
func defaultRedisStreamConfig() RedisStreamCleanupQueueConfig {
	return RedisStreamCleanupQueueConfig{
		ClaimMinIdleTime:   10 * time.Minute,
		MaxRetryCount:      3,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamCleanupQueueImpl struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamCleanupQueueConfig
	log          *zap.Logger
}

// NewRedisStreamCleanupQueue 建立 Redis Stream 版 CleanupQueue。config 可為 nil。
func NewRedisStreamCleanupQueue(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamCleanupQueueConfig) (CleanupQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
		cfg.OnDiscard = config.OnDiscard
	}

	consumerName := fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID)
	q := &RedisStreamCleanupQueueImpl{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: consumerName,
		cfg:          cfg,
		log:          logger.WithComponent("mq").With(zap.String("consumer", consumerName)),
	}
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamCleanupQueueImpl) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (q *RedisStreamCleanupQueueImpl) PublishJob(ctx context.Context, job *model.CleanupJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal cleanup job: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{jobField: string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("publish cleanup job %s: %w", job.ID, err)
	}
	return nil
}

// SubscribeJobs 新工作與逾時領回的工作共用同一個 channel；ctx 結束後關閉
func (q *RedisStreamCleanupQueueImpl) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	claimDone := make(chan struct{})

	go func() {
		defer close(claimDone)
		q.claimLoop(ctx, out)
	}()
	go func() {
		defer close(out)
		q.readLoop(ctx, out)
		<-claimDone
	}()
	return out, nil
}

// readLoop 只讀 ">"（新訊息）；已投遞過的 Pending 訊息由 claimLoop 領回
func (q *RedisStreamCleanupQueueImpl) readLoop(ctx context.Context, out chan<- Delivery) {
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.groupName,
			Consumer: q.consumerName,
			Streams:  []string{q.streamKey, ">"},
			Count:    1,
			Block:    q.cfg.ReadGroupBlockTime,
		}).Result()

		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XReadGroup failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			if stream.Stream == q.streamKey && !q.forward(ctx, out, stream.Messages, false) {
				return
			}
		}
	}
}

// claimLoop 定時用 XAUTOCLAIM 領取超時未 ack 的工作
func (q *RedisStreamCleanupQueueImpl) claimLoop(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	cursor := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		claimed, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.streamKey,
			Group:    q.groupName,
			Consumer: q.consumerName,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Count:    10,
			Start:    cursor,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("XAutoClaim failed", zap.Error(err))
			continue
		}

		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}
		if !q.forward(ctx, out, claimed, true) {
			return
		}
	}
}

// forward 解析訊息並送出；回傳 false 表示 ctx 已結束
func (q *RedisStreamCleanupQueueImpl) forward(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, claimed bool) bool {
	for _, msg := range msgs {
		job, ok := q.decode(ctx, msg)
		if !ok {
			continue
		}
		if claimed && q.exhausted(ctx, msg.ID, job) {
			continue
		}

		select {
		case out <- q.newDelivery(ctx, msg.ID, job):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// decode 格式錯誤的訊息直接 ack 丟棄
func (q *RedisStreamCleanupQueueImpl) decode(ctx context.Context, msg redis.XMessage) (*model.CleanupJob, bool) {
	log := q.log.With(zap.String("message_id", msg.ID))

	payload, ok := msg.Values[jobField].(string)
	if !ok {
		log.Warn("invalid message: missing job field")
		q.ack(ctx, msg.ID)
		return nil, false
	}

	var job model.CleanupJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		log.Warn("unmarshal cleanup job failed", zap.Error(err))
		q.ack(ctx, msg.ID)
		return nil, false
	}
	return &job, true
}

// exhausted 投遞次數已達上限的工作 ack 後交給 OnDiscard
func (q *RedisStreamCleanupQueueImpl) exhausted(ctx context.Context, messageID string, job *model.CleanupJob) bool {
	retries, err := q.deliveryCount(ctx, messageID)
	if err != nil {
		q.log.Warn("read delivery count failed", zap.String("message_id", messageID), zap.Error(err))
		return false
	}
	if retries < q.cfg.MaxRetryCount {
		return false
	}

	q.log.Warn("discard cleanup job after too many deliveries",
		zap.String("message_id", messageID),
		zap.String("job_id", job.ID.String()),
		zap.Int("retries", retries),
		zap.Int("max_retries", q.cfg.MaxRetryCount),
	)
	q.ack(ctx, messageID)
	if q.cfg.OnDiscard != nil {
		q.cfg.OnDiscard(ctx, job, retries)
	}
	return true
}

func (q *RedisStreamCleanupQueueImpl) deliveryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

func (q *RedisStreamCleanupQueueImpl) ack(ctx context.Context, messageID string) {
	if err := q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err(); err != nil {
		q.log.Error("XAck failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

func (q *RedisStreamCleanupQueueImpl) newDelivery(ctx context.Context, messageID string, job *model.CleanupJob) Delivery {
	return Delivery{
		Data: job,
		Ack: func() {
			q.ack(ctx, messageID)
		},
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，ClaimMinIdleTime 後由 claimLoop 領回
				q.log.Info("cleanup job nack(requeue), will retry",
					zap.String("job_id", job.ID.String()),
					zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			q.ack(ctx, messageID)
		},
	}
}
