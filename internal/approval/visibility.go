package approval

import (
	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// LeaveFilter selects the leave requests an actor may see.
// An empty Statuses slice means no status narrowing.
type LeaveFilter struct {
	RequesterID *string
	Statuses    []domain.LeaveStatus
}

// Matches evaluates the filter against a single request.
func (f LeaveFilter) Matches(req domain.LeaveRequest) bool {
	if f.RequesterID != nil && req.RequesterID != *f.RequesterID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, status := range f.Statuses {
		if status == req.Status {
			return true
		}
	}
	return false
}

// DefaultStatuses is the status set a reviewer sees without an explicit filter.
func DefaultStatuses(role domain.Role) []domain.LeaveStatus {
	switch role {
	case domain.RoleFirstLineReviewer:
		return []domain.LeaveStatus{
			domain.LeaveStatusPendingFirst,
			domain.LeaveStatusFirstApproved,
			domain.LeaveStatusFirstRejected,
		}
	case domain.RoleFinalReviewer:
		return []domain.LeaveStatus{
			domain.LeaveStatusFirstApproved,
			domain.LeaveStatusFinalApproved,
			domain.LeaveStatusFinalRejected,
		}
	default:
		return nil
	}
}

// LeaveScope computes the leave request filter for actor.
//
// Requesters are pinned to their own requests and both optional filters are
// ignored. Reviewers get their role's default statuses unless statuses is
// non-empty, in which case it replaces the default as given (it is not checked
// against the default set). requesterID narrows reviewer results only.
func LeaveScope(actor *domain.Actor, statuses []domain.LeaveStatus, requesterID *string) (LeaveFilter, error) {
	if actor == nil {
		return LeaveFilter{}, apperrors.NewUnauthorized("actor required")
	}
	switch actor.Role {
	case domain.RoleRequester:
		self := actor.ID
		return LeaveFilter{RequesterID: &self}, nil
	case domain.RoleFirstLineReviewer, domain.RoleFinalReviewer:
		filter := LeaveFilter{Statuses: DefaultStatuses(actor.Role)}
		if len(statuses) > 0 {
			filter.Statuses = append([]domain.LeaveStatus(nil), statuses...)
		}
		if requesterID != nil && *requesterID != "" {
			id := *requesterID
			filter.RequesterID = &id
		}
		return filter, nil
	default:
		return LeaveFilter{}, apperrors.NewForbidden("unknown role")
	}
}

// ActorFilter selects the actors a reviewer may list.
type ActorFilter struct {
	Role       *domain.Role
	Department *string
	Section    *string
}

// Matches evaluates the filter against a single actor.
func (f ActorFilter) Matches(actor domain.Actor) bool {
	if f.Role != nil && actor.Role != *f.Role {
		return false
	}
	if f.Department != nil && actor.Department != *f.Department {
		return false
	}
	if f.Section != nil && actor.Section != *f.Section {
		return false
	}
	return true
}

// ActorScope computes the user-listing filter for actor. First-line reviewers
// see their department and section, defaulting to requesters; final reviewers
// see their whole department. Requesters cannot list users.
func ActorScope(actor *domain.Actor, role *domain.Role) (ActorFilter, error) {
	if actor == nil {
		return ActorFilter{}, apperrors.NewUnauthorized("actor required")
	}
	var filter ActorFilter
	if role != nil {
		r := *role
		filter.Role = &r
	}
	department := actor.Department
	switch actor.Role {
	case domain.RoleFirstLineReviewer:
		section := actor.Section
		filter.Department = &department
		filter.Section = &section
		if filter.Role == nil {
			requester := domain.RoleRequester
			filter.Role = &requester
		}
	case domain.RoleFinalReviewer:
		filter.Department = &department
	case domain.RoleRequester:
		return ActorFilter{}, apperrors.NewForbidden("requesters cannot list users")
	default:
		return ActorFilter{}, apperrors.NewForbidden("unknown role")
	}
	return filter, nil
}
