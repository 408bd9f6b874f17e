package handler

import (
	"strings"
	"time"
	"unicode/utf8"

	"running-events-backend/internal/model"
	"running-events-backend/internal/service"
)

const (
	dateLayout       = "2006-01-02"
	excerptMaxLength = 150
)

// EventSummary 列表用的精簡欄位
type EventSummary struct {
	ID                    int     `json:"id"`
	Title                 string  `json:"title"`
	Slug                  string  `json:"slug"`
	Image                 *string `json:"image"`
	LocationName          string  `json:"location_name"`
	City                  string  `json:"city"`
	Province              *string `json:"province"`
	EventDate             string  `json:"event_date"`
	EventType             string  `json:"event_type"`
	IsFeaturedHero        bool    `json:"is_featured_hero"`
	FeaturedHeroExpiresAt *string `json:"featured_hero_expires_at"`
	Description           *string `json:"description"`
}

// EventDetail 單筆活動的完整欄位
type EventDetail struct {
	EventSummary
	EventEndDate     *string  `json:"event_end_date"`
	OrganizerName    *string  `json:"organizer_name"`
	RegistrationURL  *string  `json:"registration_url"`
	Benefits         []string `json:"benefits"`
	ContactInfo      []string `json:"contact_info"`
	RegistrationFees []string `json:"registration_fees"`
	SocialMedia      []string `json:"social_media"`
	SeoTitle         *string  `json:"seo_title"`
	SeoDescription   *string  `json:"seo_description"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// normalizeEventType 舊資料可能是 "Road Run"，統一成 road_run
func normalizeEventType(t string) string {
	return strings.ReplaceAll(strings.ToLower(t), " ", "_")
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// excerpt 去除 HTML 後取前 150 字
func excerpt(s *string) *string {
	if s == nil {
		return nil
	}
	text := service.StripTags(*s)
	if utf8.RuneCountInString(text) > excerptMaxLength {
		text = strings.TrimRight(string([]rune(text)[:excerptMaxLength]), " ") + "..."
	}
	return &text
}

func toSummary(e *model.Event) EventSummary {
	return EventSummary{
		ID:                    e.ID,
		Title:                 e.Title,
		Slug:                  e.Slug,
		Image:                 e.ImageURL,
		LocationName:          e.LocationName,
		City:                  e.City,
		Province:              e.Province,
		EventDate:             e.EventDate.Format(dateLayout),
		EventType:             normalizeEventType(e.EventType),
		IsFeaturedHero:        e.IsFeaturedHero,
		FeaturedHeroExpiresAt: formatTime(e.FeaturedHeroExpiresAt),
		Description:           excerpt(e.Description),
	}
}

func toSummaries(events []*model.Event) []EventSummary {
	out := make([]EventSummary, 0, len(events))
	for _, e := range events {
		out = append(out, toSummary(e))
	}
	return out
}

func toDetail(e *model.Event) EventDetail {
	summary := toSummary(e)
	summary.Description = e.Description
	return EventDetail{
		EventSummary:     summary,
		EventEndDate:     formatDate(e.EventEndDate),
		OrganizerName:    e.OrganizerName,
		RegistrationURL:  e.RegistrationURL,
		Benefits:         e.Benefits,
		ContactInfo:      e.ContactInfo,
		RegistrationFees: e.RegistrationFees,
		SocialMedia:      e.SocialMedia,
		SeoTitle:         e.SeoTitle,
		SeoDescription:   e.SeoDescription,
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
}
