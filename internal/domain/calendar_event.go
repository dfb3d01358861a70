package domain

import (
	"strings"
	"time"
)

// EventCategory tags a calendar event. Values are free text.
type EventCategory string

const (
	EventCategoryExam           EventCategory = "exam"
	EventCategoryExpertSession  EventCategory = "expert-session"
	EventCategoryImportantEvent EventCategory = "important-event"
)

// RestrictedEventCategories are the categories that block leave.
var RestrictedEventCategories = []EventCategory{
	EventCategoryExam,
	EventCategoryExpertSession,
	EventCategoryImportantEvent,
}

// NormalizeEventCategory trims and lower-cases a raw category.
func NormalizeEventCategory(raw string) EventCategory {
	return EventCategory(strings.ToLower(strings.TrimSpace(raw)))
}

// IsRestricted reports whether the category participates in conflict detection.
func (c EventCategory) IsRestricted() bool {
	switch c {
	case EventCategoryExam, EventCategoryExpertSession, EventCategoryImportantEvent:
		return true
	default:
		return false
	}
}

// CalendarEvent is a named, inclusive, day-granular interval on the academic calendar.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Category    EventCategory
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
