package approval

import (
	"strings"
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// Action is a reviewer decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ActionFor maps the approve flag onto an action.
func ActionFor(approve bool) Action {
	if approve {
		return ActionApprove
	}
	return ActionReject
}

// Stage identifies which audit fields a transition writes.
type Stage string

const (
	StageFirst Stage = "first"
	StageFinal Stage = "final"
)

// Transition is a resolved row of the review table.
type Transition struct {
	Action Action
	Stage  Stage
	From   domain.LeaveStatus
	To     domain.LeaveStatus
}

// ReviewUpdate is the audited write a transition produces.
type ReviewUpdate struct {
	Transition
	Review domain.StageReview
}

// Stamp builds the audit fields for a human decision.
func (t Transition) Stamp(reviewerID, comment string, now time.Time) ReviewUpdate {
	at := now
	return ReviewUpdate{
		Transition: t,
		Review: domain.StageReview{
			Comment:    &comment,
			ReviewedAt: &at,
			ReviewerID: &reviewerID,
		},
	}
}

// Apply writes the update onto a request copy in memory.
func (u ReviewUpdate) Apply(req *domain.LeaveRequest) {
	req.Status = u.To
	switch u.Stage {
	case StageFirst:
		req.FirstReview = u.Review
	case StageFinal:
		req.FinalReview = u.Review
	}
}

// ReviewStage returns the stage a role reviews, or a permission error when the
// role takes no part in approvals.
func ReviewStage(role domain.Role) (Stage, domain.LeaveStatus, error) {
	switch role {
	case domain.RoleFirstLineReviewer:
		return StageFirst, domain.LeaveStatusPendingFirst, nil
	case domain.RoleFinalReviewer:
		return StageFinal, domain.LeaveStatusFirstApproved, nil
	case domain.RoleRequester:
		return "", "", apperrors.NewForbidden("requesters cannot review leave requests")
	default:
		return "", "", apperrors.NewForbidden("unknown role")
	}
}

// Resolve matches (role, current status, action) against the review table.
// Wrong role yields a permission error; a terminal or mismatched status yields
// a state error naming the expected and actual status.
func Resolve(role domain.Role, current domain.LeaveStatus, action Action) (Transition, error) {
	stage, from, err := ReviewStage(role)
	if err != nil {
		return Transition{}, err
	}
	if action != ActionApprove && action != ActionReject {
		return Transition{}, apperrors.NewFieldError("approved", "unknown review action")
	}
	if current.IsTerminal() || current != from {
		return Transition{}, apperrors.NewStateError(string(action), string(from), string(current))
	}

	t := Transition{Action: action, Stage: stage, From: from}
	switch stage {
	case StageFirst:
		t.To = domain.LeaveStatusFirstRejected
		if action == ActionApprove {
			t.To = domain.LeaveStatusFirstApproved
		}
	case StageFinal:
		t.To = domain.LeaveStatusFinalRejected
		if action == ActionApprove {
			t.To = domain.LeaveStatusFinalApproved
		}
	}
	return t, nil
}

// ValidateComment enforces the non-empty comment guard.
func ValidateComment(comment string) (string, error) {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return "", apperrors.NewFieldError("comment", "comment required")
	}
	return trimmed, nil
}

// AutoRejection builds the system first-stage decision for a blocked request.
func AutoRejection(decision Decision, now time.Time) domain.StageReview {
	comment := decision.RejectionComment()
	at := now
	return domain.StageReview{Comment: &comment, ReviewedAt: &at}
}
