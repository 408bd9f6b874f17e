package model

import (
	"time"

	"github.com/google/uuid"
)

// KeepPolicy 重複群組中保留哪一筆
type KeepPolicy string

const (
	KeepOldest KeepPolicy = "oldest"
	KeepNewest KeepPolicy = "newest"
)

func (p KeepPolicy) IsValid() bool {
	return p == KeepOldest || p == KeepNewest
}

// DefaultMinSimilarity 標題相似度門檻（百分比）
const DefaultMinSimilarity = 80

// CleanupMethod 重複偵測方式
type CleanupMethod string

const (
	CleanupBySlug       CleanupMethod = "slug"
	CleanupBySimilarity CleanupMethod = "similarity"
)

// CleanupOptions 一次清理的參數
type CleanupOptions struct {
	BySlug        bool       `json:"by_slug"`
	BySimilarity  bool       `json:"by_similarity"`
	MinSimilarity int        `json:"min_similarity"`
	Keep          KeepPolicy `json:"keep"`
	DryRun        bool       `json:"dry_run"`
	Force         bool       `json:"force"`
}

// Normalize 補上預設值：未指定方式時使用 slug。
// MinSimilarity 為 0 是合法門檻，不在這裡補預設值。
func (o CleanupOptions) Normalize() CleanupOptions {
	if !o.BySlug && !o.BySimilarity {
		o.BySlug = true
	}
	if o.Keep == "" {
		o.Keep = KeepOldest
	}
	return o
}

// Validate 檢查參數是否合法
func (o CleanupOptions) Validate() bool {
	return o.Keep.IsValid() && o.MinSimilarity >= 0 && o.MinSimilarity <= 100
}

// DeletionOutcome 單筆刪除結果
type DeletionOutcome string

const (
	OutcomeDeleted  DeletionOutcome = "deleted"
	OutcomeDryRun   DeletionOutcome = "dry_run"
	OutcomeDeclined DeletionOutcome = "declined"
	OutcomeFailed   DeletionOutcome = "failed"
)

// EventRef 報告中使用的活動摘要
type EventRef struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func RefOf(e *Event) EventRef {
	return EventRef{ID: e.ID, Title: e.Title, Slug: e.Slug, CreatedAt: e.CreatedAt}
}

// DeletionResult 報告中的單筆刪除
type DeletionResult struct {
	Event   EventRef        `json:"event"`
	Outcome DeletionOutcome `json:"outcome"`
	Error   string          `json:"error,omitempty"`
}

// GroupReport 一個重複群組的處理結果
type GroupReport struct {
	Method     CleanupMethod    `json:"method"`
	Identifier string           `json:"identifier"`
	Kept       EventRef         `json:"kept"`
	Deletions  []DeletionResult `json:"deletions"`
}

// CleanupReport 一次清理的總結
type CleanupReport struct {
	Options    CleanupOptions `json:"options"`
	Groups     []GroupReport  `json:"groups"`
	Unresolved []string       `json:"unresolved"`
	Deleted    int            `json:"deleted"`
	Skipped    int            `json:"skipped"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// CleanupJobStatus 背景清理工作的狀態
type CleanupJobStatus string

const (
	CleanupJobQueued    CleanupJobStatus = "queued"
	CleanupJobRunning   CleanupJobStatus = "running"
	CleanupJobCompleted CleanupJobStatus = "completed"
	CleanupJobFailed    CleanupJobStatus = "failed"
)

// CleanupJob 由管理 API 排入佇列的清理工作
type CleanupJob struct {
	ID          uuid.UUID        `json:"id"`
	Options     CleanupOptions   `json:"options"`
	Status      CleanupJobStatus `json:"status"`
	RequestedAt time.Time        `json:"requested_at"`
	Report      *CleanupReport   `json:"report,omitempty"`
	Error       string           `json:"error,omitempty"`
}
