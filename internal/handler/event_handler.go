package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"running-events-backend/internal/model"
	"running-events-backend/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	monthParam = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearParam  = regexp.MustCompile(`^\d{4}$`)
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/featured-hero", h.FeaturedHero)
		router.GET("events/calendar-stats", h.CalendarStats)
		router.GET("events/years", h.AvailableYears)
		router.GET("events/slug/:slug", h.GetBySlug)
		router.POST("events/submit", h.Submit)
	}
}

// ListEventsQuery 公開列表的查詢參數
type ListEventsQuery struct {
	Month    string   `form:"month"`
	Year     string   `form:"year"`
	Type     []string `form:"type"`
	Province []string `form:"province"`
	City     string   `form:"city"`
	Search   string   `form:"search"`
	Sort     string   `form:"sort" binding:"omitempty,oneof=latest upcoming featured popular"`
	OrderBy  string   `form:"order_by"`
	Order    string   `form:"order"`
	Page     int      `form:"page" binding:"omitempty,min=1"`
	PerPage  int      `form:"per_page" binding:"omitempty,min=1"`
}

// SubmitEventRequest 公開投稿
type SubmitEventRequest struct {
	Title            string   `json:"title" binding:"required,max=255"`
	Description      *string  `json:"description" binding:"omitempty,max=10000"`
	LocationName     string   `json:"location_name" binding:"required,max=255"`
	City             string   `json:"city" binding:"required,max=100"`
	Province         *string  `json:"province" binding:"omitempty,max=100"`
	EventDate        string   `json:"event_date" binding:"required,datetime=2006-01-02"`
	EventEndDate     *string  `json:"event_end_date" binding:"omitempty,datetime=2006-01-02"`
	EventType        string   `json:"event_type" binding:"required,max=100"`
	OrganizerName    *string  `json:"organizer_name" binding:"omitempty,max=255"`
	RegistrationURL  *string  `json:"registration_url" binding:"omitempty,url,max=2048"`
	Benefits         []string `json:"benefits" binding:"omitempty,max=20,dive,max=255"`
	ContactInfo      []string `json:"contact_info" binding:"omitempty,max=10,dive,max=500"`
	RegistrationFees []string `json:"registration_fees" binding:"omitempty,max=20,dive,max=100"`
	SocialMedia      []string `json:"social_media" binding:"omitempty,max=10,dive,max=255"`
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (q ListEventsQuery) toFilter(c *gin.Context) model.EventFilter {
	filter := model.EventFilter{
		Types:     compact(append(q.Type, c.QueryArray("type[]")...)),
		Provinces: compact(append(q.Province, c.QueryArray("province[]")...)),
		City:      q.City,
		Search:    q.Search,
		Sort:      model.EventSort(q.Sort),
		OrderBy:   q.OrderBy,
		OrderAsc:  q.Order == "asc",
		Page:      q.Page,
		PerPage:   q.PerPage,
	}

	switch {
	case monthParam.MatchString(q.Month):
		filter.Year, _ = strconv.Atoi(q.Month[:4])
		filter.Month, _ = strconv.Atoi(q.Month[5:])
	case yearParam.MatchString(q.Year):
		filter.Year, _ = strconv.Atoi(q.Year)
	}
	return filter
}

func (h *EventHandler) List(c *gin.Context) {
	var query ListEventsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	page, err := h.service.List(c, query.toFilter(c))
	if err != nil {
		handleError(c, err, "List")
		return
	}

	respondWithMeta(c, http.StatusOK, toSummaries(page.Events), "Data retrieved successfully",
		gin.H{"pagination": page.Pagination})
}

func (h *EventHandler) GetBySlug(c *gin.Context) {
	event, err := h.service.GetBySlug(c, c.Param("slug"))
	if err != nil {
		handleError(c, err, "GetBySlug")
		return
	}
	respond(c, http.StatusOK, toDetail(event), "Event retrieved successfully.")
}

func (h *EventHandler) FeaturedHero(c *gin.Context) {
	events, err := h.service.FeaturedHero(c)
	if err != nil {
		handleError(c, err, "FeaturedHero")
		return
	}
	respond(c, http.StatusOK, toSummaries(events), "Featured hero events retrieved successfully.")
}

func (h *EventHandler) CalendarStats(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondValidationError(c, map[string]string{"year": "numeric"})
			return
		}
		year = parsed
	}

	stats, err := h.service.CalendarStats(c, year)
	if err != nil {
		handleError(c, err, "CalendarStats")
		return
	}
	respond(c, http.StatusOK, stats, "Calendar statistics retrieved successfully.")
}

func (h *EventHandler) AvailableYears(c *gin.Context) {
	years, err := h.service.AvailableYears(c)
	if err != nil {
		handleError(c, err, "AvailableYears")
		return
	}
	respond(c, http.StatusOK, years, "Available event years retrieved successfully.")
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func (h *EventHandler) Submit(c *gin.Context) {
	var req SubmitEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	eventDate, _ := parseDate(req.EventDate)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if eventDate.Before(today) {
		respondValidationError(c, map[string]string{"event_date": "after_or_equal=today"})
		return
	}

	params := model.SubmitEventParams{
		Title:            req.Title,
		Description:      req.Description,
		LocationName:     req.LocationName,
		City:             req.City,
		Province:         req.Province,
		EventDate:        eventDate,
		EventType:        req.EventType,
		OrganizerName:    req.OrganizerName,
		RegistrationURL:  req.RegistrationURL,
		Benefits:         req.Benefits,
		ContactInfo:      req.ContactInfo,
		RegistrationFees: req.RegistrationFees,
		SocialMedia:      req.SocialMedia,
	}
	if req.EventEndDate != nil {
		end, _ := parseDate(*req.EventEndDate)
		if end.Before(eventDate) {
			respondValidationError(c, map[string]string{"event_end_date": "after_or_equal=event_date"})
			return
		}
		params.EventEndDate = &end
	}

	created, err := h.service.Submit(c, params)
	if err != nil {
		handleError(c, err, "Submit")
		return
	}
	respond(c, http.StatusCreated, toDetail(created), "Event submitted. Waiting for admin review.")
}
