package domain

import (
	"strings"
	"time"
)

// LeaveStatus enumerates lifecycle states for leave requests.
type LeaveStatus string

const (
	LeaveStatusPendingFirst  LeaveStatus = "pending_first"
	LeaveStatusFirstApproved LeaveStatus = "first_approved"
	LeaveStatusFirstRejected LeaveStatus = "first_rejected"
	LeaveStatusFinalApproved LeaveStatus = "final_approved"
	LeaveStatusFinalRejected LeaveStatus = "final_rejected"
)

// LeaveStatuses lists every status in lifecycle order.
var LeaveStatuses = []LeaveStatus{
	LeaveStatusPendingFirst,
	LeaveStatusFirstApproved,
	LeaveStatusFirstRejected,
	LeaveStatusFinalApproved,
	LeaveStatusFinalRejected,
}

// IsTerminal reports whether no further transition leaves the status.
func (s LeaveStatus) IsTerminal() bool {
	switch s {
	case LeaveStatusFirstRejected, LeaveStatusFinalApproved, LeaveStatusFinalRejected:
		return true
	default:
		return false
	}
}

// LeaveCategory enumerates the closed set of leave kinds.
type LeaveCategory string

const (
	LeaveCategoryMedical   LeaveCategory = "medical"
	LeaveCategoryCasual    LeaveCategory = "casual"
	LeaveCategoryEmergency LeaveCategory = "emergency"
	LeaveCategoryOther     LeaveCategory = "other"
)

// ParseLeaveCategory validates a raw category value. "sick" is accepted as
// an alias of medical.
func ParseLeaveCategory(raw string) (LeaveCategory, bool) {
	category := LeaveCategory(strings.TrimSpace(strings.ToLower(raw)))
	switch category {
	case "sick":
		return LeaveCategoryMedical, true
	case LeaveCategoryMedical, LeaveCategoryCasual, LeaveCategoryEmergency, LeaveCategoryOther:
		return category, true
	default:
		return "", false
	}
}

// StageReview holds the audit trail of one approval stage.
// ReviewerID is nil for decisions issued by the system.
type StageReview struct {
	Comment    *string
	ReviewedAt *time.Time
	ReviewerID *string
}

// Completed reports whether the stage has a decision.
func (s StageReview) Completed() bool {
	return s.ReviewedAt != nil
}

// SystemDecision reports whether the stage was decided without a human reviewer.
func (s StageReview) SystemDecision() bool {
	return s.ReviewedAt != nil && s.ReviewerID == nil
}

// RequesterInfo is the requester summary joined onto reads.
type RequesterInfo struct {
	FullName   string
	Email      string
	Department string
	Section    string
}

// LeaveRequest is the aggregate for a requested leave interval.
type LeaveRequest struct {
	ID            string
	RequesterID   string
	Category      LeaveCategory
	StartDate     time.Time
	EndDate       time.Time
	Justification string
	Status        LeaveStatus
	FirstReview   StageReview
	FinalReview   StageReview
	Requester     *RequesterInfo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TruncateDay returns midnight UTC of t's calendar date.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
