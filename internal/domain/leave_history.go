package domain

import "time"

// LeaveHistory is an immutable audit trail entry for a status change.
// ActorID is nil for system decisions; FromStatus is nil on submission.
type LeaveHistory struct {
	ID             string
	LeaveRequestID string
	ActorID        *string
	FromStatus     *LeaveStatus
	ToStatus       LeaveStatus
	Comment        string
	CreatedAt      time.Time
}
