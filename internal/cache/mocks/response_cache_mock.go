package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type ResponseCacheMock struct {
	mock.Mock
}

func NewResponseCacheMock() *ResponseCacheMock {
	return &ResponseCacheMock{}
}

func (m *ResponseCacheMock) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *ResponseCacheMock) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *ResponseCacheMock) Forget(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
