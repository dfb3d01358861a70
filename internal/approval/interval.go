// Package approval holds the leave decision engine: interval overlap, restricted-date
// conflict detection, the two-stage review state machine and role-scoped visibility.
// Everything here is pure; persistence and locking live in the service layer.
package approval

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range truncated to calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: domain.TruncateDay(start), End: domain.TruncateDay(end)}
}

// Intersects reports whether two closed ranges share at least one day:
// [a,b] and [c,d] intersect iff a <= d and c <= b.
func (r DateRange) Intersects(other DateRange) bool {
	a, b := domain.TruncateDay(r.Start), domain.TruncateDay(r.End)
	c, d := domain.TruncateDay(other.Start), domain.TruncateDay(other.End)
	return !a.After(d) && !c.After(b)
}

// Ordered reports start <= end. Calendar events use this inclusive rule.
func (r DateRange) Ordered() bool {
	return !domain.TruncateDay(r.Start).After(domain.TruncateDay(r.End))
}

// StrictlyOrdered reports start < end. New leave requests use this rule,
// so a request starting and ending on the same day is rejected.
func (r DateRange) StrictlyOrdered() bool {
	return domain.TruncateDay(r.Start).Before(domain.TruncateDay(r.End))
}

// EventRange returns the closed range covered by a calendar event.
func EventRange(event domain.CalendarEvent) DateRange {
	return NewDateRange(event.StartDate, event.EndDate)
}
