package worker

import (
	"context"
	"time"

	"running-events-backend/internal/cache"
	"running-events-backend/internal/model"
	"running-events-backend/internal/queue"
	"running-events-backend/internal/service"
	"running-events-backend/pkg/logger"

	"go.uber.org/zap"
)

type CleanupWorker interface {
	// 訂閱清理佇列，背景逐一執行
	Start(ctx context.Context) error
	// Done 訂閱結束、最後一個工作處理完後關閉
	Done() <-chan struct{}
}

type CleanupWorkerImpl struct {
	service service.CleanupService
	queue   queue.CleanupQueue
	jobs    cache.CleanupJobStore
	now     func() time.Time
	done    chan struct{}
}

func NewCleanupWorker(service service.CleanupService, queue queue.CleanupQueue, jobs cache.CleanupJobStore) CleanupWorker {
	return &CleanupWorkerImpl{
		service: service,
		queue:   queue,
		jobs:    jobs,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

func (w *CleanupWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeJobs(ctx)
	if err != nil {
		return err
	}

	// 只有一個 goroutine 消費，同一個 process 內不會同時跑兩次清理
	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *CleanupWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *CleanupWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	job := msg.Data
	log := logger.WithComponent("worker").With(zap.String("job_id", job.ID.String()))

	job.Status = model.CleanupJobRunning
	w.save(ctx, job)

	// HTTP 觸發的清理沒有人可以回答確認，一律 force
	opts := job.Options
	opts.Force = true

	report, err := w.service.Run(ctx, opts, nil)
	job.Report = report
	if err != nil {
		log.Error("cleanup job failed", zap.Error(err))
		job.Status = model.CleanupJobFailed
		job.Error = err.Error()
		w.save(ctx, job)
		// 部分刪除可能已完成，不重新排入，避免重跑
		msg.Nack(false)
		return
	}

	job.Status = model.CleanupJobCompleted
	w.save(ctx, job)
	msg.Ack()

	log.Info("cleanup job completed",
		zap.Int("deleted", report.Deleted),
		zap.Int("skipped", report.Skipped),
		zap.Duration("elapsed", w.now().Sub(job.RequestedAt)),
	)
}

func (w *CleanupWorkerImpl) save(ctx context.Context, job *model.CleanupJob) {
	if err := w.jobs.Save(ctx, job); err != nil {
		logger.WithComponent("worker").Warn("failed to save cleanup job state",
			zap.String("job_id", job.ID.String()), zap.String("status", string(job.Status)), zap.Error(err))
	}
}
