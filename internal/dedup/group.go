package dedup

import (
	"sort"
	"strings"

	"running-events-backend/internal/model"
)

// Group 一組被視為同一場實際活動的紀錄
type Group struct {
	Method     model.CleanupMethod
	Identifier string
	Keep       *model.Event
	Delete     []*model.Event
}

// Size 群組內活動數（含保留的那一筆）
func (g Group) Size() int {
	return len(g.Delete) + 1
}

func sortByCreatedAt(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
}

// pickByPolicy oldest 保留最早建立的一筆，newest 保留最晚的一筆
func pickByPolicy(events []*model.Event, keep model.KeepPolicy) (*model.Event, []*model.Event) {
	sortByCreatedAt(events)
	if keep == model.KeepNewest {
		last := len(events) - 1
		return events[last], events[:last]
	}
	return events[0], events[1:]
}

func sortByDateAndTitle(events []*model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := events[i].DateKey(), events[j].DateKey()
		if di != dj {
			return di < dj
		}
		return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
	})
}

// GroupBySimilarity 同一天且標題相似度 >= minSimilarity 的活動歸為一組。
// 群組會持續擴張：新成員相似的其他活動也會被納入，所以「A 與 B 相似」時兩者必在同一組。
func GroupBySimilarity(events []*model.Event, minSimilarity int, keep model.KeepPolicy) []Group {
	sorted := make([]*model.Event, len(events))
	copy(sorted, events)
	sortByDateAndTitle(sorted)

	byDate := make(map[string][]int)
	for i, e := range sorted {
		byDate[e.DateKey()] = append(byDate[e.DateKey()], i)
	}

	visited := make([]bool, len(sorted))
	groups := make([]Group, 0)

	for i, seed := range sorted {
		if visited[i] {
			continue
		}
		visited[i] = true

		members := []*model.Event{seed}
		sameDay := byDate[seed.DateKey()]
		for next := 0; next < len(members); next++ {
			current := members[next]
			for _, j := range sameDay {
				if visited[j] {
					continue
				}
				other := sorted[j]
				if TitleSimilarity(current.Title, other.Title) >= minSimilarity {
					visited[j] = true
					members = append(members, other)
				}
			}
		}

		if len(members) < 2 {
			continue
		}

		kept, rest := pickByPolicy(members, keep)
		groups = append(groups, Group{
			Method:     model.CleanupBySimilarity,
			Identifier: kept.Title,
			Keep:       kept,
			Delete:     rest,
		})
	}
	return groups
}
