package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"running-events-backend/internal/model"
	apperrors "running-events-backend/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindBySlugs(ctx context.Context, slugs []string) (map[string]*model.Event, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error)
	Delete(ctx context.Context, id int) error

	// 重複清理用
	ListBySlugPattern(ctx context.Context, pattern string) ([]*model.Event, error)
	ListOrderedByDateAndTitle(ctx context.Context) ([]*model.Event, error)

	// 公開 API 用
	ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error)
	ListFeaturedHero(ctx context.Context, now time.Time, limit int) ([]*model.Event, error)
	CountPublishedByMonth(ctx context.Context, year int) (map[int]int, error)
	ListPublishedYears(ctx context.Context) ([]int, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, user_id, title, slug, description, location_name, city, province,
		event_date, event_end_date, event_type, registration_url, organizer_name,
		benefits, contact_info, registration_fees, social_media, seo_title, seo_description,
		status, is_featured_hero, featured_hero_expires_at, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.LocationName,
		&event.City,
		&event.Province,
		&event.EventDate,
		&event.EventEndDate,
		&event.EventType,
		&event.RegistrationURL,
		&event.OrganizerName,
		&event.Benefits,
		&event.ContactInfo,
		&event.RegistrationFees,
		&event.SocialMedia,
		&event.SeoTitle,
		&event.SeoDescription,
		&event.Status,
		&event.IsFeaturedHero,
		&event.FeaturedHeroExpiresAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// jsonArray nil slice 存成 SQL NULL，而不是 JSON null
func jsonArray(values []string) interface{} {
	if values == nil {
		return nil
	}
	return values
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			user_id, title, slug, description, location_name, city, province,
			event_date, event_end_date, event_type, registration_url, organizer_name,
			benefits, contact_info, registration_fees, social_media, seo_title, seo_description,
			status, is_featured_hero, featured_hero_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.UserID, event.Title, event.Slug, event.Description, event.LocationName, event.City, event.Province,
		event.EventDate, event.EventEndDate, event.EventType, event.RegistrationURL, event.OrganizerName,
		jsonArray(event.Benefits), jsonArray(event.ContactInfo), jsonArray(event.RegistrationFees), jsonArray(event.SocialMedia),
		event.SeoTitle, event.SeoDescription,
		event.Status, event.IsFeaturedHero, event.FeaturedHeroExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) FindBySlugs(ctx context.Context, slugs []string) (map[string]*model.Event, error) {
	result := make(map[string]*model.Event, len(slugs))
	if len(slugs) == 0 {
		return result, nil
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = ANY($1)`

	rows, err := r.pool.Query(ctx, query, slugs)
	if err != nil {
		return nil, err
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		result[e.Slug] = e
	}
	return result, nil
}

func (r *EventRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + eventColumns

	event, err := scanEvent(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) ListBySlugPattern(ctx context.Context, pattern string) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug ~ $1 ORDER BY slug`

	rows, err := r.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) ListOrderedByDateAndTitle(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date, LOWER(title), id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

var allowedOrderColumns = map[string]bool{
	"event_date": true,
	"created_at": true,
	"updated_at": true,
}

// buildOrderClause 依排序方式決定 ORDER BY；upcoming / featured 在未指定 order_by 時固定由近到遠
func buildOrderClause(filter model.EventFilter) string {
	column := ""
	if allowedOrderColumns[filter.OrderBy] {
		column = filter.OrderBy
	}

	direction := "DESC"
	if filter.OrderAsc {
		direction = "ASC"
	}

	switch filter.Sort {
	case model.EventSortUpcoming, model.EventSortFeatured:
		if column == "" {
			return "event_date ASC, id ASC"
		}
	case model.EventSortPopular:
		if column == "" {
			column = "created_at"
		}
	}

	if column == "" {
		column = "event_date"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

func buildPublishedWhere(filter model.EventFilter) (string, []interface{}) {
	conds := []string{"status = $1"}
	args := []interface{}{model.EventStatusPublished}
	argPos := 2

	if filter.Year > 0 {
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM event_date) = $%d", argPos))
		args = append(args, filter.Year)
		argPos++
	}

	if filter.Month > 0 {
		conds = append(conds, fmt.Sprintf("EXTRACT(MONTH FROM event_date) = $%d", argPos))
		args = append(args, filter.Month)
		argPos++
	}

	if len(filter.Types) > 0 {
		conds = append(conds, fmt.Sprintf("event_type = ANY($%d)", argPos))
		args = append(args, filter.Types)
		argPos++
	}

	if len(filter.Provinces) > 0 {
		conds = append(conds, fmt.Sprintf("LOWER(province) = ANY($%d)", argPos))
		lowered := make([]string, 0, len(filter.Provinces))
		for _, p := range filter.Provinces {
			lowered = append(lowered, strings.ToLower(p))
		}
		args = append(args, lowered)
		argPos++
	}

	if filter.City != "" {
		conds = append(conds, fmt.Sprintf("city = $%d", argPos))
		args = append(args, filter.City)
		argPos++
	}

	if filter.Search != "" {
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR location_name ILIKE $%d OR city = $%d)", argPos, argPos, argPos+1))
		args = append(args, "%"+filter.Search+"%", filter.Search)
		argPos += 2
	}

	if filter.Sort == model.EventSortFeatured {
		conds = append(conds, "is_featured_hero = TRUE")
	}

	return strings.Join(conds, " AND "), args
}

func (r *EventRepositoryImpl) ListPublished(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	where, args := buildPublishedWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	argPos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, buildOrderClause(filter), argPos, argPos+1)

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepositoryImpl) ListFeaturedHero(ctx context.Context, now time.Time, limit int) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE is_featured_hero = TRUE
		  AND status = $1
		  AND (featured_hero_expires_at IS NULL OR featured_hero_expires_at > $2)
		ORDER BY event_date ASC, created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.EventStatusPublished, now, limit)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func (r *EventRepositoryImpl) CountPublishedByMonth(ctx context.Context, year int) (map[int]int, error) {
	query := `
		SELECT EXTRACT(MONTH FROM event_date)::int AS month, COUNT(*)::int
		FROM events
		WHERE status = $1 AND EXTRACT(YEAR FROM event_date) = $2
		GROUP BY month
	`

	rows, err := r.pool.Query(ctx, query, model.EventStatusPublished, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int, 12)
	for month := 1; month <= 12; month++ {
		counts[month] = 0
	}
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		counts[month] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *EventRepositoryImpl) ListPublishedYears(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT EXTRACT(YEAR FROM event_date)::int AS year
		FROM events
		WHERE status = $1
		ORDER BY year DESC
	`

	rows, err := r.pool.Query(ctx, query, model.EventStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		if year > 0 {
			years = append(years, year)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return years, nil
}
