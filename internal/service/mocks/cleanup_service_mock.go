package mocks

import (
	"context"

	"running-events-backend/internal/model"
	"running-events-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type CleanupServiceMock struct {
	mock.Mock
}

func NewCleanupServiceMock() *CleanupServiceMock {
	return &CleanupServiceMock{}
}

func (m *CleanupServiceMock) Run(ctx context.Context, opts model.CleanupOptions, confirmer service.Confirmer) (*model.CleanupReport, error) {
	args := m.Called(ctx, opts, confirmer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleanupReport), args.Error(1)
}
