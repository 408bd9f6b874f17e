package dedup

import (
	"math"
	"testing"
	"time"

	"running-events-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func newEvent(id int, slug string, createdOffset time.Duration) *model.Event {
	return &model.Event{
		ID:        id,
		Title:     slug,
		Slug:      slug,
		EventDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt: baseTime.Add(createdOffset),
	}
}

func ids(events []*model.Event) []int {
	out := make([]int, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestParseSuffixedSlug(t *testing.T) {
	base, suffix, ok := ParseSuffixedSlug("jakarta-run-2026-3")
	require.True(t, ok)
	assert.Equal(t, "jakarta-run-2026", base)
	assert.Equal(t, 3, suffix)

	_, _, ok = ParseSuffixedSlug("jakarta-run")
	assert.False(t, ok)

	_, _, ok = ParseSuffixedSlug("-1")
	assert.False(t, ok)

	base, suffix, ok = ParseSuffixedSlug("fun-run-99999999999999999999")
	require.True(t, ok)
	assert.Equal(t, "fun-run", base)
	assert.Equal(t, math.MaxInt, suffix)
}

func TestBucketBySlug_OverflowSuffix(t *testing.T) {
	events := []*model.Event{
		newEvent(1, "fun-run-99999999999999999999", 0),
		newEvent(2, "fun-run-3", 0),
	}

	buckets := BucketBySlug(events)

	require.Len(t, buckets, 1)
	assert.Equal(t, "fun-run", buckets[0].Base)
	require.Len(t, buckets[0].Events, 2)
	assert.Equal(t, 2, buckets[0].Events[0].ID)
	assert.Equal(t, 1, buckets[0].Events[1].ID)
}

func TestBucketBySlug(t *testing.T) {
	events := []*model.Event{
		newEvent(1, "fun-run-10", 0),
		newEvent(2, "fun-run-2", 0),
		newEvent(3, "trail", 0),
		newEvent(4, "city-run-1", 0),
	}

	buckets := BucketBySlug(events)

	require.Len(t, buckets, 2)
	assert.Equal(t, "fun-run", buckets[0].Base)
	assert.Equal(t, []int{2, 1}, ids(buckets[0].Events))
	assert.Equal(t, "city-run", buckets[1].Base)
	assert.Equal(t, []string{"fun-run", "city-run"}, Bases(buckets))
}

func TestResolveSlugBuckets(t *testing.T) {
	original := newEvent(10, "bali-run", 0)
	dup1 := newEvent(11, "bali-run-1", time.Hour)
	dup2 := newEvent(12, "bali-run-2", 2*time.Hour)
	orphan := newEvent(20, "ghost-run-1", 0)

	buckets := BucketBySlug([]*model.Event{dup2, dup1, orphan})
	originals := map[string]*model.Event{"bali-run": original}

	t.Run("Success - oldest keeps the original", func(t *testing.T) {
		groups, unresolved := ResolveSlugBuckets(buckets, originals, model.KeepOldest)

		require.Len(t, groups, 1)
		assert.Equal(t, 10, groups[0].Keep.ID)
		assert.Equal(t, []int{11, 12}, ids(groups[0].Delete))
		assert.Equal(t, 3, groups[0].Size())
		assert.Equal(t, []string{"ghost-run"}, unresolved)
	})

	t.Run("Success - newest keeps the latest created", func(t *testing.T) {
		groups, unresolved := ResolveSlugBuckets(buckets, originals, model.KeepNewest)

		require.Len(t, groups, 1)
		assert.Equal(t, 12, groups[0].Keep.ID)
		assert.ElementsMatch(t, []int{10, 11}, ids(groups[0].Delete))
		assert.Equal(t, []string{"ghost-run"}, unresolved)
	})

	t.Run("Success - exactly one survivor per resolved group", func(t *testing.T) {
		for _, keep := range []model.KeepPolicy{model.KeepOldest, model.KeepNewest} {
			groups, _ := ResolveSlugBuckets(buckets, originals, keep)
			for _, g := range groups {
				all := append([]*model.Event{g.Keep}, g.Delete...)
				assert.Len(t, all, 3)
				assert.NotContains(t, ids(g.Delete), g.Keep.ID)
			}
		}
	})

	t.Run("Success - unresolved bucket is untouched", func(t *testing.T) {
		groups, unresolved := ResolveSlugBuckets(BucketBySlug([]*model.Event{orphan}), originals, model.KeepOldest)

		assert.Empty(t, groups)
		assert.Equal(t, []string{"ghost-run"}, unresolved)
	})
}
