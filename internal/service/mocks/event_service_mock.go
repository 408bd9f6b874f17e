package mocks

import (
	"context"

	"running-events-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) List(ctx context.Context, filter model.EventFilter) (*model.EventPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventPage), args.Error(1)
}

func (m *EventServiceMock) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return m.event(m.Called(ctx, slug))
}

func (m *EventServiceMock) FeaturedHero(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) CalendarStats(ctx context.Context, year int) (map[int]int, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *EventServiceMock) AvailableYears(ctx context.Context) (*model.AvailableYears, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AvailableYears), args.Error(1)
}

func (m *EventServiceMock) Submit(ctx context.Context, params model.SubmitEventParams) (*model.Event, error) {
	return m.event(m.Called(ctx, params))
}

func (m *EventServiceMock) Approve(ctx context.Context, id int) (*model.Event, error) {
	return m.event(m.Called(ctx, id))
}

func (m *EventServiceMock) Reject(ctx context.Context, id int) (*model.Event, error) {
	return m.event(m.Called(ctx, id))
}
