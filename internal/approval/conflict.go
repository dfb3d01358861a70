package approval

import (
	"fmt"
	"strings"

	"github.com/spec-kit/leave-service/internal/domain"
)

// DecisionKind tags the outcome of conflict detection.
type DecisionKind string

const (
	DecisionAdmitted     DecisionKind = "admitted"
	DecisionAutoRejected DecisionKind = "auto_rejected"
)

// Decision is the detector verdict for a candidate leave request.
// For AutoRejected, Events are the blocking events; for Admitted, Events
// are advisory and empty when nothing intersects.
type Decision struct {
	Kind   DecisionKind
	Events []domain.CalendarEvent
}

// AutoRejected reports whether the request must be created already rejected.
func (d Decision) AutoRejected() bool {
	return d.Kind == DecisionAutoRejected
}

// HasAdvisory reports whether an admitted request carries an advisory.
func (d Decision) HasAdvisory() bool {
	return d.Kind == DecisionAdmitted && len(d.Events) > 0
}

// InitialStatus is the status the state machine persists on creation.
func (d Decision) InitialStatus() domain.LeaveStatus {
	if d.AutoRejected() {
		return domain.LeaveStatusFirstRejected
	}
	return domain.LeaveStatusPendingFirst
}

// RejectionComment is the synthesized first-stage comment for an auto-rejection.
func (d Decision) RejectionComment() string {
	return fmt.Sprintf("Auto-rejected: Leave conflicts with important academic events (%s). Only medical leaves are considered during these dates.",
		eventTitles(d.Events))
}

// AdvisoryNote is appended to the justification of an admitted medical request.
func (d Decision) AdvisoryNote() string {
	return fmt.Sprintf("Note: This medical leave conflicts with important academic events (%s). Please review carefully.",
		eventTitles(d.Events))
}

// Justification returns the text to store for an admitted request.
func (d Decision) Justification(original string) string {
	if !d.HasAdvisory() {
		return original
	}
	return original + "\n\n" + d.AdvisoryNote()
}

// RestrictedConflicts returns the restricted events whose range intersects candidate,
// preserving input order.
func RestrictedConflicts(candidate DateRange, events []domain.CalendarEvent) []domain.CalendarEvent {
	var conflicts []domain.CalendarEvent
	for _, event := range events {
		if !event.Category.IsRestricted() {
			continue
		}
		if candidate.Intersects(EventRange(event)) {
			conflicts = append(conflicts, event)
		}
	}
	return conflicts
}

// Detect classifies a candidate leave request against the calendar.
func Detect(candidate DateRange, category domain.LeaveCategory, events []domain.CalendarEvent) Decision {
	conflicts := RestrictedConflicts(candidate, events)
	if len(conflicts) > 0 && category != domain.LeaveCategoryMedical {
		return Decision{Kind: DecisionAutoRejected, Events: conflicts}
	}
	return Decision{Kind: DecisionAdmitted, Events: conflicts}
}

func eventTitles(events []domain.CalendarEvent) string {
	titles := make([]string, 0, len(events))
	for _, event := range events {
		titles = append(titles, event.Title)
	}
	return strings.Join(titles, ", ")
}
