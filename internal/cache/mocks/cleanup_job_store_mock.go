package mocks

import (
	"context"

	"running-events-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CleanupJobStoreMock struct {
	mock.Mock
}

func NewCleanupJobStoreMock() *CleanupJobStoreMock {
	return &CleanupJobStoreMock{}
}

func (m *CleanupJobStoreMock) Save(ctx context.Context, job *model.CleanupJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *CleanupJobStoreMock) Get(ctx context.Context, id uuid.UUID) (*model.CleanupJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleanupJob), args.Error(1)
}
