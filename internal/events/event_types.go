package events

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeaveRequestSubmitted    EventType = "leave_request_submitted"
	EventLeaveRequestAutoRejected EventType = "leave_request_auto_rejected"
	EventLeaveRequestReviewed     EventType = "leave_request_reviewed"
	EventCalendarEventCreated     EventType = "calendar_event_created"
	EventCalendarEventDeleted     EventType = "calendar_event_deleted"
)

// Actor encapsulates actor metadata for an event. A nil ActorID marks a
// system-issued event.
type Actor struct {
	ActorID *string     `json:"actor_id,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// LeaveRequestSubmittedPayload payload.
type LeaveRequestSubmittedPayload struct {
	RequesterID string               `json:"requester_id"`
	Category    domain.LeaveCategory `json:"category"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     time.Time            `json:"end_date"`
	Advisory    []string             `json:"advisory_events,omitempty"`
}

// LeaveRequestAutoRejectedPayload payload.
type LeaveRequestAutoRejectedPayload struct {
	RequesterID    string               `json:"requester_id"`
	Category       domain.LeaveCategory `json:"category"`
	BlockingEvents []string             `json:"blocking_events"`
	Comment        string               `json:"comment"`
}

// LeaveRequestReviewedPayload payload.
type LeaveRequestReviewedPayload struct {
	RequesterID string             `json:"requester_id"`
	OldStatus   domain.LeaveStatus `json:"old_status"`
	NewStatus   domain.LeaveStatus `json:"new_status"`
	Comment     string             `json:"comment"`
}

// CalendarEventPayload payload for calendar create/delete events.
type CalendarEventPayload struct {
	Title     string               `json:"title"`
	Category  domain.EventCategory `json:"category"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
}
