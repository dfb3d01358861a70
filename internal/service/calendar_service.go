package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// CalendarService manages the academic calendar.
type CalendarService struct {
	events repository.CalendarEventRepository
	logger *zap.Logger
	bus    publisher
	now    func() time.Time
}

// CalendarDependencies bundles calendar service collaborators.
type CalendarDependencies struct {
	CalendarRepo repository.CalendarEventRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

// CreateEventInput describes a new calendar event.
type CreateEventInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Category    string
}

// ImportResult summarizes an ICS import.
type ImportResult struct {
	Created []domain.CalendarEvent
	Skipped int
}

// NewCalendarService constructs the service.
func NewCalendarService(deps CalendarDependencies) *CalendarService {
	now := defaultClock(deps.Now)
	logger := defaultLogger(deps.Logger)
	return &CalendarService{
		events: deps.CalendarRepo,
		logger: logger,
		bus:    publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:    now,
	}
}

// Create adds an event. Only reviewers manage the calendar. Event ranges are
// inclusive, so a single-day event has equal start and end.
func (s *CalendarService) Create(ctx context.Context, actor *domain.Actor, input CreateEventInput) (*domain.CalendarEvent, error) {
	if err := requireReviewer(actor, "only reviewers can manage calendar events"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewFieldError("title", "title is required")
	}
	category := domain.NormalizeEventCategory(input.Category)
	if category == "" {
		return nil, apperrors.NewFieldError("category", "category is required")
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.NewFieldError("start_date", "start date is required")
	}
	if input.EndDate.IsZero() {
		return nil, apperrors.NewFieldError("end_date", "end date is required")
	}
	period := approval.NewDateRange(input.StartDate, input.EndDate)
	if !period.Ordered() {
		return nil, apperrors.NewFieldError("end_date", "end date must be after or equal to start date")
	}

	createdBy := actor.ID
	event := &domain.CalendarEvent{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		StartDate:   period.Start,
		EndDate:     period.End,
		Category:    category,
		CreatedBy:   &createdBy,
	}
	var cacheErr error
	if err := s.events.Create(ctx, event); err != nil {
		if !errors.Is(err, repository.ErrCacheInvalidation) {
			s.logger.Error("persist calendar event", zap.Error(err))
			return nil, apperrors.MapError(err)
		}
		cacheErr = staleCalendarError(event.ID, err)
	}

	s.bus.publish(ctx, events.Event{
		Type:        events.EventCalendarEventCreated,
		AggregateID: event.ID,
		Actor:       actorRef(actor),
		Payload:     calendarPayload(event),
	})
	return event, cacheErr
}

// List returns every event ordered by start date.
func (s *CalendarService) List(ctx context.Context, actor *domain.Actor) ([]domain.CalendarEvent, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	list, err := s.events.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Delete removes an event. Requests already decided against it keep their status.
func (s *CalendarService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := requireReviewer(actor, "only reviewers can manage calendar events"); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("calendar event", map[string]any{"id": id})
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("calendar event", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	var cacheErr error
	if err := s.events.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.NewNotFound("calendar event", map[string]any{"id": id})
		case errors.Is(err, repository.ErrCacheInvalidation):
			cacheErr = staleCalendarError(id, err)
		default:
			return apperrors.MapError(err)
		}
	}

	s.bus.publish(ctx, events.Event{
		Type:        events.EventCalendarEventDeleted,
		AggregateID: id,
		Actor:       actorRef(actor),
		Payload:     calendarPayload(event),
	})
	return cacheErr
}

// ImportICS creates one event per usable VEVENT in r.
func (s *CalendarService) ImportICS(ctx context.Context, actor *domain.Actor, r io.Reader) (*ImportResult, error) {
	if err := requireReviewer(actor, "only reviewers can manage calendar events"); err != nil {
		return nil, err
	}
	parsed, skipped, err := parseICS(r)
	if err != nil {
		return nil, apperrors.NewFieldError("body", "invalid iCalendar content")
	}

	result := &ImportResult{Skipped: skipped}
	var cacheErr error
	for _, item := range parsed {
		event, err := s.Create(ctx, actor, CreateEventInput{
			Title:       item.Title,
			Description: item.Description,
			StartDate:   item.Start,
			EndDate:     item.End,
			Category:    string(item.Category),
		})
		switch {
		case err == nil:
		case apperrors.IsCode(err, apperrors.CodeValidation):
			result.Skipped++
			continue
		case event != nil && apperrors.IsCode(err, apperrors.CodeUnavailable):
			cacheErr = err
		default:
			return nil, err
		}
		result.Created = append(result.Created, *event)
	}
	s.logger.Info("calendar imported",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", result.Skipped))
	if cacheErr != nil {
		return result, cacheErr
	}
	return result, nil
}

// ExportICS renders every event as an iCalendar document.
func (s *CalendarService) ExportICS(ctx context.Context, actor *domain.Actor) (string, error) {
	list, err := s.List(ctx, actor)
	if err != nil {
		return "", err
	}
	return renderICS(list, s.now()), nil
}

// staleCalendarError reports a committed calendar write whose restricted
// event cache entry could not be retired. Leave decisions may use the old
// calendar until the entry expires.
func staleCalendarError(id string, err error) error {
	return apperrors.NewUnavailable(
		"calendar saved, but leave conflict checks may use the previous calendar until the cache expires",
		map[string]any{"event_id": id, "saved": true},
		err)
}

func calendarPayload(event *domain.CalendarEvent) events.CalendarEventPayload {
	return events.CalendarEventPayload{
		Title:     event.Title,
		Category:  event.Category,
		StartDate: event.StartDate,
		EndDate:   event.EndDate,
	}
}

func requireReviewer(actor *domain.Actor, message string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if !actor.Role.IsReviewer() {
		return apperrors.NewForbidden(message)
	}
	return nil
}
