package mocks

import (
	"context"

	"running-events-backend/internal/model"
	"running-events-backend/internal/queue"

	"github.com/stretchr/testify/mock"
)

type CleanupQueueMock struct {
	mock.Mock
}

func NewCleanupQueueMock() *CleanupQueueMock {
	return &CleanupQueueMock{}
}

func (m *CleanupQueueMock) PublishJob(ctx context.Context, job *model.CleanupJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *CleanupQueueMock) SubscribeJobs(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
