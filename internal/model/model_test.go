package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to EventStatus
		want     bool
	}{
		{EventStatusPendingReview, EventStatusPublished, true},
		{EventStatusPendingReview, EventStatusDraft, true},
		{EventStatusDraft, EventStatusPendingReview, true},
		{EventStatusDraft, EventStatusPublished, true},
		{EventStatusPublished, EventStatusDraft, true},
		{EventStatusPublished, EventStatusPendingReview, false},
		{EventStatusPublished, EventStatusPublished, false},
		{EventStatus("archived"), EventStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.False(t, EventStatus("archived").IsValid())
}

func TestCleanupOptions(t *testing.T) {
	t.Run("Success - defaults to slug oldest", func(t *testing.T) {
		opts := CleanupOptions{MinSimilarity: DefaultMinSimilarity}.Normalize()
		assert.True(t, opts.BySlug)
		assert.False(t, opts.BySimilarity)
		assert.Equal(t, KeepOldest, opts.Keep)
		assert.Equal(t, DefaultMinSimilarity, opts.MinSimilarity)
		assert.True(t, opts.Validate())
	})

	t.Run("Success - zero threshold is kept", func(t *testing.T) {
		opts := CleanupOptions{BySimilarity: true}.Normalize()
		assert.Equal(t, 0, opts.MinSimilarity)
		assert.True(t, opts.Validate())
	})

	t.Run("Success - similarity only is kept", func(t *testing.T) {
		opts := CleanupOptions{BySimilarity: true, MinSimilarity: 95, Keep: KeepNewest}.Normalize()
		assert.False(t, opts.BySlug)
		assert.Equal(t, 95, opts.MinSimilarity)
	})

	t.Run("Failed - invalid values", func(t *testing.T) {
		assert.False(t, CleanupOptions{Keep: "middle", MinSimilarity: 80}.Validate())
		assert.False(t, CleanupOptions{Keep: KeepOldest, MinSimilarity: 101}.Validate())
		assert.False(t, CleanupOptions{Keep: KeepOldest, MinSimilarity: -1}.Validate())
	})
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 30, 12)
	assert.Equal(t, 3, p.LastPage)
	assert.True(t, p.HasMorePages)
	assert.Equal(t, 13, *p.From)
	assert.Equal(t, 24, *p.To)

	empty := NewPagination(1, 12, 0, 0)
	assert.Equal(t, 1, empty.LastPage)
	assert.False(t, empty.HasMorePages)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)
}

func TestMediaPaths(t *testing.T) {
	m := &Media{ID: 42, FileName: "poster.final.jpg"}
	assert.Equal(t, "42/", m.Directory())
	assert.Equal(t, "42/poster.final.jpg", m.Path())
	assert.Equal(t, "42/conversions/poster.final-webp.webp", m.ConversionPath("webp", "webp"))
}
