package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"running-events-backend/internal/cache"
	"running-events-backend/internal/dedup"
	"running-events-backend/internal/metrics"
	"running-events-backend/internal/model"
	"running-events-backend/internal/repository"
	apperrors "running-events-backend/pkg/app_errors"
	"running-events-backend/pkg/logger"

	"go.uber.org/zap"
)

// Confirmer 在未使用 force 時，逐筆詢問是否刪除
type Confirmer interface {
	Confirm(ctx context.Context, group dedup.Group, candidate *model.Event) bool
}

// ConfirmFunc 讓一般函式實作 Confirmer
type ConfirmFunc func(ctx context.Context, group dedup.Group, candidate *model.Event) bool

func (f ConfirmFunc) Confirm(ctx context.Context, group dedup.Group, candidate *model.Event) bool {
	return f(ctx, group, candidate)
}

// AutoConfirm 全部同意
var AutoConfirm = ConfirmFunc(func(context.Context, dedup.Group, *model.Event) bool { return true })

type CleanupService interface {
	// Run 依序執行 slug 與相似度兩種清理，回傳報告。
	// 單筆刪除失敗只記錄並計入 skipped；只有讀取活動失敗才回傳 error。
	Run(ctx context.Context, opts model.CleanupOptions, confirmer Confirmer) (*model.CleanupReport, error)
}

type CleanupServiceImpl struct {
	repo    repository.EventRepository
	media   MediaService
	cache   cache.ResponseCache
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCleanupService(repo repository.EventRepository, media MediaService, responseCache cache.ResponseCache, m *metrics.Metrics) CleanupService {
	return &CleanupServiceImpl{
		repo:    repo,
		media:   media,
		cache:   responseCache,
		metrics: m,
		now:     time.Now,
	}
}

func (s *CleanupServiceImpl) Run(ctx context.Context, opts model.CleanupOptions, confirmer Confirmer) (*model.CleanupReport, error) {
	opts = opts.Normalize()
	if !opts.Validate() {
		return nil, apperrors.ErrInvalidInput
	}
	if confirmer == nil {
		confirmer = AutoConfirm
	}

	log := logger.WithComponent("cleanup").With(
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force", opts.Force),
		zap.String("keep", string(opts.Keep)),
	)

	report := &model.CleanupReport{
		Options:    opts,
		Groups:     []model.GroupReport{},
		Unresolved: []string{},
		StartedAt:  s.now(),
	}
	touched := newCacheKeySet()

	if opts.BySlug {
		groups, unresolved, err := s.planBySlug(ctx, opts.Keep)
		if err != nil {
			return s.finish(ctx, report, touched), fmt.Errorf("plan slug duplicates: %w", err)
		}
		report.Unresolved = append(report.Unresolved, unresolved...)
		for _, base := range unresolved {
			log.Warn("original event not found for suffixed slugs", zap.String("base", base))
		}
		s.apply(ctx, groups, opts, confirmer, report, touched)
	}

	if opts.BySimilarity {
		events, err := s.repo.ListOrderedByDateAndTitle(ctx)
		if err != nil {
			return s.finish(ctx, report, touched), fmt.Errorf("list events for similarity: %w", err)
		}
		groups := dedup.GroupBySimilarity(events, opts.MinSimilarity, opts.Keep)
		s.apply(ctx, groups, opts, confirmer, report, touched)
	}

	s.finish(ctx, report, touched)
	log.Info("cleanup finished",
		zap.Int("groups", len(report.Groups)),
		zap.Int("unresolved", len(report.Unresolved)),
		zap.Int("deleted", report.Deleted),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

func (s *CleanupServiceImpl) planBySlug(ctx context.Context, keep model.KeepPolicy) ([]dedup.Group, []string, error) {
	suffixed, err := s.repo.ListBySlugPattern(ctx, dedup.SuffixedSlugPattern)
	if err != nil {
		return nil, nil, err
	}

	buckets := dedup.BucketBySlug(suffixed)
	if len(buckets) == 0 {
		return nil, nil, nil
	}

	originals, err := s.repo.FindBySlugs(ctx, dedup.Bases(buckets))
	if err != nil {
		return nil, nil, err
	}

	groups, unresolved := dedup.ResolveSlugBuckets(buckets, originals, keep)
	return groups, unresolved, nil
}

// apply 逐筆處理群組內要刪除的活動，每筆互不影響
func (s *CleanupServiceImpl) apply(ctx context.Context, groups []dedup.Group, opts model.CleanupOptions, confirmer Confirmer, report *model.CleanupReport, touched cacheKeySet) {
	log := logger.WithComponent("cleanup")

	for _, group := range groups {
		gr := model.GroupReport{
			Method:     group.Method,
			Identifier: group.Identifier,
			Kept:       model.RefOf(group.Keep),
			Deletions:  make([]model.DeletionResult, 0, len(group.Delete)),
		}

		for _, candidate := range group.Delete {
			result := model.DeletionResult{Event: model.RefOf(candidate)}

			switch {
			case opts.DryRun:
				result.Outcome = model.OutcomeDryRun
				report.Skipped++
			case !opts.Force && !confirmer.Confirm(ctx, group, candidate):
				result.Outcome = model.OutcomeDeclined
				report.Skipped++
			default:
				if err := s.deleteEvent(ctx, candidate); err != nil {
					log.Error("failed to delete duplicate event",
						zap.String("method", string(group.Method)),
						zap.String("identifier", group.Identifier),
						zap.Int("event_id", candidate.ID),
						zap.Error(err),
					)
					result.Outcome = model.OutcomeFailed
					result.Error = err.Error()
					report.Skipped++
				} else {
					log.Info("deleted duplicate event",
						zap.String("method", string(group.Method)),
						zap.Int("event_id", candidate.ID),
						zap.String("slug", candidate.Slug),
						zap.Int("kept_id", group.Keep.ID),
					)
					result.Outcome = model.OutcomeDeleted
					report.Deleted++
					touched.addEvent(candidate)
				}
			}

			gr.Deletions = append(gr.Deletions, result)
		}

		report.Groups = append(report.Groups, gr)
	}
}

// deleteEvent 先清除圖片（檔案與 media 紀錄），再刪除活動
func (s *CleanupServiceImpl) deleteEvent(ctx context.Context, event *model.Event) error {
	if err := s.media.ClearCollection(ctx, model.EventMorphType, event.ID, model.DefaultMediaCollection); err != nil {
		return fmt.Errorf("clear media: %w", err)
	}
	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *CleanupServiceImpl) finish(ctx context.Context, report *model.CleanupReport, touched cacheKeySet) *model.CleanupReport {
	report.FinishedAt = s.now()
	if keys := touched.keys(); len(keys) > 0 && s.cache != nil {
		if err := s.cache.Forget(ctx, keys...); err != nil {
			logger.WithComponent("cleanup").Warn("failed to forget event caches", zap.Strings("keys", keys), zap.Error(err))
		}
	}
	s.metrics.ObserveCleanup(report)
	return report
}

// cacheKeySet 刪除活動後需要失效的快取 key
type cacheKeySet map[string]struct{}

func newCacheKeySet() cacheKeySet {
	return cacheKeySet{}
}

func (k cacheKeySet) addEvent(e *model.Event) {
	k[cache.FeaturedHeroKey] = struct{}{}
	k[cache.AvailableYearsKey] = struct{}{}
	k[cache.CalendarStatsKey(e.EventDate.Year())] = struct{}{}
}

func (k cacheKeySet) keys() []string {
	out := make([]string, 0, len(k))
	for key := range k {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
