package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"running-events-backend/internal/model"
	apperrors "running-events-backend/pkg/app_errors"

	"github.com/google/uuid"
)

func cleanupJobKey(id uuid.UUID) string {
	return fmt.Sprintf("cleanup_job:%s", id)
}

// CleanupJobStore 保存背景清理工作的狀態與報告
type CleanupJobStore interface {
	Save(ctx context.Context, job *model.CleanupJob) error
	Get(ctx context.Context, id uuid.UUID) (*model.CleanupJob, error)
}

type CleanupJobStoreImpl struct {
	cache ResponseCache
	ttl   time.Duration
}

func NewCleanupJobStore(cache ResponseCache, ttl time.Duration) CleanupJobStore {
	return &CleanupJobStoreImpl{cache: cache, ttl: ttl}
}

func (s *CleanupJobStoreImpl) Save(ctx context.Context, job *model.CleanupJob) error {
	return s.cache.Set(ctx, cleanupJobKey(job.ID), job, s.ttl)
}

func (s *CleanupJobStoreImpl) Get(ctx context.Context, id uuid.UUID) (*model.CleanupJob, error) {
	var job model.CleanupJob
	if err := s.cache.Get(ctx, cleanupJobKey(id), &job); err != nil {
		if errors.Is(err, apperrors.ErrCacheMiss) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}
