package queue

import (
	"context"

	"running-events-backend/internal/model"
)

type Delivery struct {
	Data *model.CleanupJob
	Ack  func()
	Nack func(requeue bool)
}

type CleanupQueue interface {
	// 發送清理工作到隊列
	PublishJob(ctx context.Context, job *model.CleanupJob) error
	// 訂閱清理工作
	SubscribeJobs(ctx context.Context) (<-chan Delivery, error)
}

type CleanupQueueImpl struct {
	// 單一 process 內以 channel 排隊
	ch chan *model.CleanupJob
}

func NewCleanupQueue(bufferSize int) CleanupQueue {
	return &CleanupQueueImpl{
		ch: make(chan *model.CleanupJob, bufferSize),
	}
}

func (q *CleanupQueueImpl) PublishJob(ctx context.Context, job *model.CleanupJob) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *CleanupQueueImpl) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: job,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							go func() { q.ch <- job }()
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
