package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type DiskMock struct {
	mock.Mock
	name string
}

func NewDiskMock(name string) *DiskMock {
	return &DiskMock{name: name}
}

func (m *DiskMock) Name() string {
	return m.name
}

func (m *DiskMock) DeleteDirectory(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

func (m *DiskMock) URL(path string) string {
	return "https://cdn.test/" + path
}
