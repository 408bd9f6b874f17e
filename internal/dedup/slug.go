package dedup

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"running-events-backend/internal/model"
)

// SuffixedSlugPattern 帶數字尾碼的 slug，例如 event-2026-1
const SuffixedSlugPattern = `^.+-[0-9]+$`

var suffixedSlugRe = regexp.MustCompile(`^(.+)-(\d+)$`)

// ParseSuffixedSlug 拆出 base 與數字尾碼
func ParseSuffixedSlug(slug string) (base string, suffix int, ok bool) {
	m := suffixedSlugRe.FindStringSubmatch(slug)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		// 尾碼只用來排序，超過 int 範圍就排在最後
		n = math.MaxInt
	}
	return m[1], n, true
}

type suffixed struct {
	event  *model.Event
	suffix int
}

// SlugBucket 同一個 base 底下的帶尾碼活動，已依尾碼由小到大排序
type SlugBucket struct {
	Base   string
	Events []*model.Event
}

// BucketBySlug 依 base 分組，分組順序與輸入中第一次出現的順序相同
func BucketBySlug(events []*model.Event) []SlugBucket {
	order := make([]string, 0)
	byBase := make(map[string][]suffixed)

	for _, e := range events {
		base, suffix, ok := ParseSuffixedSlug(e.Slug)
		if !ok {
			continue
		}
		if _, seen := byBase[base]; !seen {
			order = append(order, base)
		}
		byBase[base] = append(byBase[base], suffixed{event: e, suffix: suffix})
	}

	buckets := make([]SlugBucket, 0, len(order))
	for _, base := range order {
		items := byBase[base]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].suffix < items[j].suffix
		})
		bucket := SlugBucket{Base: base, Events: make([]*model.Event, 0, len(items))}
		for _, it := range items {
			bucket.Events = append(bucket.Events, it.event)
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// Bases 列出所有 bucket 的 base，供查詢原始活動使用
func Bases(buckets []SlugBucket) []string {
	bases := make([]string, 0, len(buckets))
	for _, b := range buckets {
		bases = append(bases, b.Base)
	}
	return bases
}

// ResolveSlugBuckets 依原始活動（slug 等於 base）決定保留與刪除。
// 找不到原始活動的 bucket 不處理，base 放入 unresolved。
func ResolveSlugBuckets(buckets []SlugBucket, originals map[string]*model.Event, keep model.KeepPolicy) (groups []Group, unresolved []string) {
	for _, bucket := range buckets {
		original, ok := originals[bucket.Base]
		if !ok || original == nil {
			unresolved = append(unresolved, bucket.Base)
			continue
		}

		candidates := make([]*model.Event, len(bucket.Events))
		copy(candidates, bucket.Events)

		group := Group{Method: model.CleanupBySlug, Identifier: bucket.Base}
		if keep == model.KeepNewest {
			candidates = append(candidates, original)
			sortByCreatedAt(candidates)
			group.Keep = candidates[len(candidates)-1]
			group.Delete = candidates[:len(candidates)-1]
		} else {
			group.Keep = original
			group.Delete = candidates
		}

		if len(group.Delete) == 0 {
			continue
		}
		groups = append(groups, group)
	}
	return groups, unresolved
}
