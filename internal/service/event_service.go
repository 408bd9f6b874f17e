package service

import (
	"context"
	"fmt"
	"time"

	"running-events-backend/config"
	"running-events-backend/internal/cache"
	"running-events-backend/internal/model"
	"running-events-backend/internal/repository"
	apperrors "running-events-backend/pkg/app_errors"
	"running-events-backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultPerPage    = 12
	MaxPerPage        = 50
	FeaturedHeroLimit = 5
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) (*model.EventPage, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	FeaturedHero(ctx context.Context) ([]*model.Event, error)
	CalendarStats(ctx context.Context, year int) (map[int]int, error)
	AvailableYears(ctx context.Context) (*model.AvailableYears, error)
	Submit(ctx context.Context, params model.SubmitEventParams) (*model.Event, error)
	Approve(ctx context.Context, id int) (*model.Event, error)
	Reject(ctx context.Context, id int) (*model.Event, error)
}

type EventServiceImpl struct {
	repo  repository.EventRepository
	media MediaService
	cache cache.ResponseCache
	ttl   config.CacheConfig
	now   func() time.Time
}

func NewEventService(repo repository.EventRepository, media MediaService, responseCache cache.ResponseCache, ttl config.CacheConfig) EventService {
	return &EventServiceImpl{
		repo:  repo,
		media: media,
		cache: responseCache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// normalizeFilter per_page 預設 12、上限 50；page 預設 1
func normalizeFilter(filter model.EventFilter) model.EventFilter {
	if filter.PerPage <= 0 {
		filter.PerPage = DefaultPerPage
	}
	if filter.PerPage > MaxPerPage {
		filter.PerPage = MaxPerPage
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Sort == "" {
		filter.Sort = model.EventSortLatest
	}
	return filter
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) (*model.EventPage, error) {
	filter = normalizeFilter(filter)

	events, total, err := s.repo.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.media.AttachImageURLs(ctx, events); err != nil {
		return nil, err
	}

	return &model.EventPage{
		Events:     events,
		Pagination: model.NewPagination(filter.Page, filter.PerPage, total, len(events)),
	}, nil
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished() {
		return nil, apperrors.ErrEventNotPublished
	}
	if err := s.media.AttachImageURLs(ctx, []*model.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventServiceImpl) FeaturedHero(ctx context.Context) ([]*model.Event, error) {
	return cache.Remember(ctx, s.cache, cache.FeaturedHeroKey, s.ttl.FeaturedHeroTTL, func(ctx context.Context) ([]*model.Event, error) {
		events, err := s.repo.ListFeaturedHero(ctx, s.now(), FeaturedHeroLimit)
		if err != nil {
			return nil, err
		}
		if err := s.media.AttachImageURLs(ctx, events); err != nil {
			return nil, err
		}
		return events, nil
	})
}

func (s *EventServiceImpl) CalendarStats(ctx context.Context, year int) (map[int]int, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	return cache.Remember(ctx, s.cache, cache.CalendarStatsKey(year), s.ttl.CalendarTTL, func(ctx context.Context) (map[int]int, error) {
		return s.repo.CountPublishedByMonth(ctx, year)
	})
}

func (s *EventServiceImpl) AvailableYears(ctx context.Context) (*model.AvailableYears, error) {
	years, err := cache.Remember(ctx, s.cache, cache.AvailableYearsKey, s.ttl.CalendarTTL, s.repo.ListPublishedYears)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		years = []int{s.now().Year()}
	}

	result := &model.AvailableYears{Years: years, MinYear: years[0], MaxYear: years[0]}
	for _, y := range years {
		if y < result.MinYear {
			result.MinYear = y
		}
		if y > result.MaxYear {
			result.MaxYear = y
		}
	}
	return result, nil
}

func (s *EventServiceImpl) Submit(ctx context.Context, params model.SubmitEventParams) (*model.Event, error) {
	title := StripTags(params.Title)
	slug := Slugify(title)
	if title == "" || slug == "" {
		return nil, apperrors.ErrInvalidInput
	}

	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		slug = fmt.Sprintf("%s-%d", slug, s.now().Unix())
	}

	event := &model.Event{
		UserID:           params.UserID,
		Title:            title,
		Slug:             slug,
		Description:      stripTagsPtr(params.Description),
		LocationName:     StripTags(params.LocationName),
		City:             StripTags(params.City),
		Province:         stripTagsPtr(params.Province),
		EventDate:        params.EventDate,
		EventEndDate:     params.EventEndDate,
		EventType:        params.EventType,
		RegistrationURL:  params.RegistrationURL,
		OrganizerName:    stripTagsPtr(params.OrganizerName),
		Benefits:         stripTagsAll(params.Benefits),
		ContactInfo:      stripTagsAll(params.ContactInfo),
		RegistrationFees: stripTagsAll(params.RegistrationFees),
		SocialMedia:      stripTagsAll(params.SocialMedia),
		Status:           model.EventStatusPendingReview,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	logger.WithComponent("event").Info("event submitted for review",
		zap.Int("event_id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (s *EventServiceImpl) Approve(ctx context.Context, id int) (*model.Event, error) {
	return s.transition(ctx, id, model.EventStatusPublished)
}

func (s *EventServiceImpl) Reject(ctx context.Context, id int) (*model.Event, error) {
	return s.transition(ctx, id, model.EventStatusDraft)
}

func (s *EventServiceImpl) transition(ctx context.Context, id int, target model.EventStatus) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}

	keys := []string{cache.FeaturedHeroKey, cache.AvailableYearsKey, cache.CalendarStatsKey(updated.EventDate.Year())}
	if err := s.cache.Forget(ctx, keys...); err != nil {
		logger.WithComponent("event").Warn("failed to forget event caches", zap.Strings("keys", keys), zap.Error(err))
	}

	logger.WithComponent("event").Info("event status changed",
		zap.Int("event_id", id),
		zap.String("from", string(event.Status)),
		zap.String("to", string(target)),
	)
	return updated, nil
}
