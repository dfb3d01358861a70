package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLeaveCategory(t *testing.T) {
	for raw, want := range map[string]LeaveCategory{
		"medical":   LeaveCategoryMedical,
		" Sick ":    LeaveCategoryMedical,
		"CASUAL":    LeaveCategoryCasual,
		"emergency": LeaveCategoryEmergency,
		"other":     LeaveCategoryOther,
	} {
		got, ok := ParseLeaveCategory(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseLeaveCategory("vacation")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Final_Reviewer ")
	assert.True(t, ok)
	assert.Equal(t, RoleFinalReviewer, role)
	assert.True(t, role.IsReviewer())
	assert.False(t, RoleRequester.IsReviewer())

	_, ok = ParseRole("dean")
	assert.False(t, ok)
}

func TestLeaveStatusTerminal(t *testing.T) {
	terminal := map[LeaveStatus]bool{
		LeaveStatusPendingFirst:  false,
		LeaveStatusFirstApproved: false,
		LeaveStatusFirstRejected: true,
		LeaveStatusFinalApproved: true,
		LeaveStatusFinalRejected: true,
	}
	for _, status := range LeaveStatuses {
		assert.Equal(t, terminal[status], status.IsTerminal(), status)
	}
}

func TestEventCategoryRestriction(t *testing.T) {
	assert.Equal(t, EventCategoryExam, NormalizeEventCategory("  EXAM "))
	for _, c := range RestrictedEventCategories {
		assert.True(t, c.IsRestricted())
	}
	assert.False(t, EventCategory("holiday").IsRestricted())
}

func TestStageReview(t *testing.T) {
	now := time.Now()
	reviewer := "r-1"
	assert.False(t, StageReview{}.Completed())
	assert.True(t, StageReview{ReviewedAt: &now}.SystemDecision())
	assert.False(t, StageReview{ReviewedAt: &now, ReviewerID: &reviewer}.SystemDecision())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), TruncateDay(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)))
}
