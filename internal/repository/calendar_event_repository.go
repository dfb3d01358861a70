package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// CalendarEventRepository persists academic calendar events.
type CalendarEventRepository interface {
	Create(ctx context.Context, event *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	List(ctx context.Context) ([]domain.CalendarEvent, error)
	// ListRestricted returns only events whose category blocks leave.
	ListRestricted(ctx context.Context) ([]domain.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

type calendarEventRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarEventRepository instantiates repository.
func NewCalendarEventRepository(pool *pgxpool.Pool) CalendarEventRepository {
	return &calendarEventRepository{pool: pool}
}

const calendarEventColumns = `id, title, description, start_date, end_date, category, created_by, created_at, updated_at`

func (r *calendarEventRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	const query = `
        INSERT INTO calendar_events (title, description, start_date, end_date, category, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Category,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *calendarEventRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events WHERE id=$1`
	return scanCalendarEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *calendarEventRepository) List(ctx context.Context) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events ORDER BY start_date ASC, title ASC`
	return r.query(ctx, query)
}

func (r *calendarEventRepository) ListRestricted(ctx context.Context) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
        WHERE category = ANY($1) ORDER BY start_date ASC, title ASC`
	categories := make([]string, len(domain.RestrictedEventCategories))
	for i, c := range domain.RestrictedEventCategories {
		categories[i] = string(c)
	}
	return r.query(ctx, query, categories)
}

func (r *calendarEventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *calendarEventRepository) query(ctx context.Context, query string, args ...any) ([]domain.CalendarEvent, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CalendarEvent
	for rows.Next() {
		event, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func scanCalendarEvent(row pgx.Row) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Category,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	event.StartDate = domain.TruncateDay(event.StartDate)
	event.EndDate = domain.TruncateDay(event.EndDate)
	return &event, nil
}
