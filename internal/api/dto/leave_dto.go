package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// CreateLeaveRequest payload.
type CreateLeaveRequest struct {
	Category      string `json:"category"`
	StartDate     Date   `json:"start_date"`
	EndDate       Date   `json:"end_date"`
	Justification string `json:"justification"`
}

// ReviewLeaveRequest payload. Approved is a pointer so a missing flag is
// distinguishable from false.
type ReviewLeaveRequest struct {
	Approved *bool  `json:"approved"`
	Comment  string `json:"comment"`
}

// StageReviewResponse is the audit trail of one stage.
type StageReviewResponse struct {
	Comment    *string    `json:"comment"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	ReviewerID *string    `json:"reviewer_id"`
}

// RequesterResponse is the joined requester summary.
type RequesterResponse struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Section    string `json:"section"`
}

// LeaveRequestResponse represents a leave request.
type LeaveRequestResponse struct {
	ID            string               `json:"id"`
	RequesterID   string               `json:"requester_id"`
	Requester     *RequesterResponse   `json:"requester,omitempty"`
	Category      domain.LeaveCategory `json:"category"`
	StartDate     Date                 `json:"start_date"`
	EndDate       Date                 `json:"end_date"`
	Justification string               `json:"justification"`
	Status        domain.LeaveStatus   `json:"status"`
	FirstReview   StageReviewResponse  `json:"first_review"`
	FinalReview   StageReviewResponse  `json:"final_review"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ConflictingEventResponse names a calendar event the request intersects.
type ConflictingEventResponse struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Category domain.EventCategory `json:"category"`
	Start    Date                 `json:"start_date"`
	End      Date                 `json:"end_date"`
}

// CreateLeaveResponse is returned on submission.
type CreateLeaveResponse struct {
	Message           string                     `json:"message"`
	Request           LeaveRequestResponse       `json:"request"`
	AutoRejected      bool                       `json:"auto_rejected"`
	SystemNote        *string                    `json:"system_note"`
	ConflictingEvents []ConflictingEventResponse `json:"conflicting_events"`
}

// LeaveHistoryResponse is one audit trail entry.
type LeaveHistoryResponse struct {
	ID         string              `json:"id"`
	ActorID    *string             `json:"actor_id"`
	FromStatus *domain.LeaveStatus `json:"from_status"`
	ToStatus   domain.LeaveStatus  `json:"to_status"`
	Comment    string              `json:"comment"`
	CreatedAt  time.Time           `json:"created_at"`
}

// PageMeta describes pagination of a list response.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// NewLeaveRequestResponse maps a domain leave request.
func NewLeaveRequestResponse(req *domain.LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            req.ID,
		RequesterID:   req.RequesterID,
		Category:      req.Category,
		StartDate:     NewDate(req.StartDate),
		EndDate:       NewDate(req.EndDate),
		Justification: req.Justification,
		Status:        req.Status,
		FirstReview:   stageReview(req.FirstReview),
		FinalReview:   stageReview(req.FinalReview),
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if req.Requester != nil {
		resp.Requester = &RequesterResponse{
			FullName:   req.Requester.FullName,
			Email:      req.Requester.Email,
			Department: req.Requester.Department,
			Section:    req.Requester.Section,
		}
	}
	return resp
}

// NewConflictingEvents maps the detector's event list.
func NewConflictingEvents(events []domain.CalendarEvent) []ConflictingEventResponse {
	if len(events) == 0 {
		return nil
	}
	out := make([]ConflictingEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, ConflictingEventResponse{
			ID:       event.ID,
			Title:    event.Title,
			Category: event.Category,
			Start:    NewDate(event.StartDate),
			End:      NewDate(event.EndDate),
		})
	}
	return out
}

// NewLeaveHistoryResponse maps an audit entry.
func NewLeaveHistoryResponse(h domain.LeaveHistory) LeaveHistoryResponse {
	return LeaveHistoryResponse{
		ID:         h.ID,
		ActorID:    h.ActorID,
		FromStatus: h.FromStatus,
		ToStatus:   h.ToStatus,
		Comment:    h.Comment,
		CreatedAt:  h.CreatedAt,
	}
}

func stageReview(s domain.StageReview) StageReviewResponse {
	return StageReviewResponse{Comment: s.Comment, ReviewedAt: s.ReviewedAt, ReviewerID: s.ReviewerID}
}
