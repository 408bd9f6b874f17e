package mocks

import (
	"context"
	"time"

	"running-events-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{}
}

func (m *EventRepositoryMock) event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) events(args mock.Arguments) ([]*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	return m.event(m.Called(ctx, event))
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id int) (*model.Event, error) {
	return m.event(m.Called(ctx, id))
}

func (m *EventRepositoryMock) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return m.event(m.Called(ctx, slug))
}

func (m *EventRepositoryMock) FindBySlugs(ctx context.Context, slugs []string) (map[string]*model.Event, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *EventRepositoryMock) UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error) {
	return m.event(m.Called(ctx, id, status))
}

func (m *EventRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventRepositoryMock) ListBySlugPattern(ctx context.Context, pattern string) ([]*model.Event, error) {
	return m.events(m.Called(ctx, pattern))
}

func (m *EventRepositoryMock) ListOrderedByDateAndTitle(ctx context.Context) ([]*model.Event, error) {
	return m.events(m.Called(ctx))
}

func (m *EventRepositoryMock) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Event), args.Int(1), args.Error(2)
}

func (m *EventRepositoryMock) ListFeaturedHero(ctx context.Context, now time.Time, limit int) ([]*model.Event, error) {
	return m.events(m.Called(ctx, now, limit))
}

func (m *EventRepositoryMock) CountPublishedByMonth(ctx context.Context, year int) (map[int]int, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *EventRepositoryMock) ListPublishedYears(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
