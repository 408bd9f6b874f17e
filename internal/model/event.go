package model

import "time"

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft         EventStatus = "draft"
	EventStatusPendingReview EventStatus = "pending_review"
	EventStatusPublished     EventStatus = "published"
)

// EventMorphType media 表中 model_type 欄位對應的值
const EventMorphType = "App\\Models\\Event"

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPendingReview, EventStatusPublished:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	transitions := map[EventStatus][]EventStatus{
		EventStatusPendingReview: {EventStatusPublished, EventStatusDraft},
		EventStatusDraft:         {EventStatusPendingReview, EventStatusPublished},
		EventStatusPublished:     {EventStatusDraft},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Event 活動模型
type Event struct {
	ID                    int         `json:"id" db:"id"`
	UserID                *int        `json:"user_id,omitempty" db:"user_id"`
	Title                 string      `json:"title" db:"title"`
	Slug                  string      `json:"slug" db:"slug"`
	Description           *string     `json:"description,omitempty" db:"description"`
	LocationName          string      `json:"location_name" db:"location_name"`
	City                  string      `json:"city" db:"city"`
	Province              *string     `json:"province,omitempty" db:"province"`
	EventDate             time.Time   `json:"event_date" db:"event_date"`
	EventEndDate          *time.Time  `json:"event_end_date,omitempty" db:"event_end_date"`
	EventType             string      `json:"event_type" db:"event_type"`
	RegistrationURL       *string     `json:"registration_url,omitempty" db:"registration_url"`
	OrganizerName         *string     `json:"organizer_name,omitempty" db:"organizer_name"`
	Benefits              []string    `json:"benefits,omitempty" db:"benefits"`
	ContactInfo           []string    `json:"contact_info,omitempty" db:"contact_info"`
	RegistrationFees      []string    `json:"registration_fees,omitempty" db:"registration_fees"`
	SocialMedia           []string    `json:"social_media,omitempty" db:"social_media"`
	SeoTitle              *string     `json:"seo_title,omitempty" db:"seo_title"`
	SeoDescription        *string     `json:"seo_description,omitempty" db:"seo_description"`
	Status                EventStatus `json:"status" db:"status"`
	IsFeaturedHero        bool        `json:"is_featured_hero" db:"is_featured_hero"`
	FeaturedHeroExpiresAt *time.Time  `json:"featured_hero_expires_at,omitempty" db:"featured_hero_expires_at"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"`

	// ImageURL default collection 第一張圖的公開網址，由 MediaService 填入
	ImageURL *string `json:"image_url,omitempty" db:"-"`
}

// IsPublished 檢查活動是否已公開
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

// DateKey 以日曆日期作為比對用的 key
func (e *Event) DateKey() string {
	return e.EventDate.Format("2006-01-02")
}

// EventSort 公開列表的排序方式
type EventSort string

const (
	EventSortLatest   EventSort = "latest"
	EventSortUpcoming EventSort = "upcoming"
	EventSortFeatured EventSort = "featured"
	EventSortPopular  EventSort = "popular"
)

// EventFilter 公開列表的查詢條件
type EventFilter struct {
	Year      int
	Month     int
	Types     []string
	Provinces []string
	City      string
	Search    string
	Sort      EventSort
	OrderBy   string
	OrderAsc  bool
	Page      int
	PerPage   int
}

// Pagination 分頁資訊
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	LastPage     int  `json:"last_page"`
	PerPage      int  `json:"per_page"`
	Total        int  `json:"total"`
	From         *int `json:"from"`
	To           *int `json:"to"`
	HasMorePages bool `json:"has_more_pages"`
}

// NewPagination 依總數計算分頁資訊
func NewPagination(page, perPage, total int, count int) Pagination {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}
	p := Pagination{
		CurrentPage:  page,
		LastPage:     lastPage,
		PerPage:      perPage,
		Total:        total,
		HasMorePages: page < lastPage,
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From = &from
		p.To = &to
	}
	return p
}

// EventPage 分頁後的活動列表
type EventPage struct {
	Events     []*Event
	Pagination Pagination
}

// SubmitEventParams 公開投稿的活動資料（已清理）
type SubmitEventParams struct {
	UserID           *int
	Title            string
	Description      *string
	LocationName     string
	City             string
	Province         *string
	EventDate        time.Time
	EventEndDate     *time.Time
	EventType        string
	OrganizerName    *string
	RegistrationURL  *string
	Benefits         []string
	ContactInfo      []string
	RegistrationFees []string
	SocialMedia      []string
}

// AvailableYears 有公開活動的年份
type AvailableYears struct {
	Years   []int `json:"years"`
	MinYear int   `json:"min_year"`
	MaxYear int   `json:"max_year"`
}
