package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// CreateCalendarEventRequest payload. EventType is accepted as an alias of Category.
type CreateCalendarEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   Date   `json:"start_date"`
	EndDate     Date   `json:"end_date"`
	Category    string `json:"category"`
	EventType   string `json:"event_type"`
}

// CalendarEventResponse represents a calendar event.
type CalendarEventResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	StartDate   Date                 `json:"start_date"`
	EndDate     Date                 `json:"end_date"`
	Category    domain.EventCategory `json:"category"`
	Restricted  bool                 `json:"restricted"`
	CreatedBy   *string              `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ImportCalendarResponse summarizes an ICS import.
type ImportCalendarResponse struct {
	Created []CalendarEventResponse `json:"created"`
	Skipped int                     `json:"skipped"`
}

// NewCalendarEventResponse maps a domain event.
func NewCalendarEventResponse(event *domain.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartDate:   NewDate(event.StartDate),
		EndDate:     NewDate(event.EndDate),
		Category:    event.Category,
		Restricted:  event.Category.IsRestricted(),
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
