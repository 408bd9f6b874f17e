package mocks

import (
	"context"

	"running-events-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type MediaRepositoryMock struct {
	mock.Mock
}

func NewMediaRepositoryMock() *MediaRepositoryMock {
	return &MediaRepositoryMock{}
}

func (m *MediaRepositoryMock) ListForModel(ctx context.Context, modelType string, modelID int, collection string) ([]*model.Media, error) {
	args := m.Called(ctx, modelType, modelID, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Media), args.Error(1)
}

func (m *MediaRepositoryMock) FirstForModels(ctx context.Context, modelType string, modelIDs []int, collection string) (map[int]*model.Media, error) {
	args := m.Called(ctx, modelType, modelIDs, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]*model.Media), args.Error(1)
}

func (m *MediaRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
