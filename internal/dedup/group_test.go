package dedup

import (
	"testing"
	"time"

	"running-events-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titled(id int, title string, day int, createdOffset time.Duration) *model.Event {
	return &model.Event{
		ID:        id,
		Title:     title,
		Slug:      title,
		EventDate: time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC),
		CreatedAt: baseTime.Add(createdOffset),
	}
}

func TestGroupBySimilarity(t *testing.T) {
	t.Run("Success - same date and similar title", func(t *testing.T) {
		events := []*model.Event{
			titled(1, "Bandung Night Run 2026", 7, 2*time.Hour),
			titled(2, "Bandung Night Run 2026 ", 7, time.Hour),
			titled(3, "Surabaya Trail", 7, 0),
		}

		groups := GroupBySimilarity(events, 80, model.KeepOldest)

		require.Len(t, groups, 1)
		assert.Equal(t, model.CleanupBySimilarity, groups[0].Method)
		assert.Equal(t, 2, groups[0].Keep.ID)
		assert.Equal(t, []int{1}, ids(groups[0].Delete))
	})

	t.Run("Success - different dates never group", func(t *testing.T) {
		events := []*model.Event{
			titled(1, "Bandung Night Run", 7, 0),
			titled(2, "Bandung Night Run", 8, 0),
		}

		assert.Empty(t, GroupBySimilarity(events, 80, model.KeepOldest))
	})

	t.Run("Success - below threshold stays apart", func(t *testing.T) {
		events := []*model.Event{
			titled(1, "Bandung Night Run", 7, 0),
			titled(2, "Jogja Half Marathon", 7, 0),
		}

		assert.Empty(t, GroupBySimilarity(events, 80, model.KeepOldest))
	})

	t.Run("Success - keep policy picks min or max created_at", func(t *testing.T) {
		events := []*model.Event{
			titled(1, "Solo Fun Run", 9, 3*time.Hour),
			titled(2, "Solo Fun Run!", 9, time.Hour),
			titled(3, "solo fun run", 9, 5*time.Hour),
		}

		oldest := GroupBySimilarity(events, 80, model.KeepOldest)
		require.Len(t, oldest, 1)
		assert.Equal(t, 2, oldest[0].Keep.ID)
		assert.ElementsMatch(t, []int{1, 3}, ids(oldest[0].Delete))

		newest := GroupBySimilarity(events, 80, model.KeepNewest)
		require.Len(t, newest, 1)
		assert.Equal(t, 3, newest[0].Keep.ID)
		assert.ElementsMatch(t, []int{1, 2}, ids(newest[0].Delete))
	})

	t.Run("Success - matching pairs always share a group", func(t *testing.T) {
		events := []*model.Event{
			titled(1, "Run A", 1, 0),
			titled(2, "Run AB", 1, time.Minute),
			titled(3, "Run ABC", 1, 2*time.Minute),
			titled(4, "Run ABCD", 1, 3*time.Minute),
			titled(5, "Totally Different", 1, 4*time.Minute),
		}

		groups := GroupBySimilarity(events, 85, model.KeepOldest)

		groupOf := map[int]int{}
		for gi, g := range groups {
			groupOf[g.Keep.ID] = gi
			for _, d := range g.Delete {
				groupOf[d.ID] = gi
			}
		}
		for _, a := range events {
			for _, b := range events {
				if a.ID == b.ID || TitleSimilarity(a.Title, b.Title) < 85 {
					continue
				}
				ga, okA := groupOf[a.ID]
				gb, okB := groupOf[b.ID]
				require.True(t, okA && okB, "%d and %d should be grouped", a.ID, b.ID)
				assert.Equal(t, ga, gb)
			}
		}
		assert.NotContains(t, groupOf, 5)
	})

	t.Run("Success - does not reorder the caller slice", func(t *testing.T) {
		events := []*model.Event{
			titled(2, "Zeta Run", 2, 0),
			titled(1, "Alpha Run", 1, 0),
		}

		GroupBySimilarity(events, 80, model.KeepOldest)

		assert.Equal(t, []int{2, 1}, ids(events))
	})
}
