package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func TestLeaveScope_RequesterPinnedToSelf(t *testing.T) {
	actor := &domain.Actor{ID: "u-1", Role: domain.RoleRequester}

	filter, err := LeaveScope(actor, []domain.LeaveStatus{domain.LeaveStatusFinalApproved}, strPtr("u-2"))

	require.NoError(t, err)
	require.NotNil(t, filter.RequesterID)
	assert.Equal(t, "u-1", *filter.RequesterID)
	assert.Empty(t, filter.Statuses)

	assert.True(t, filter.Matches(domain.LeaveRequest{RequesterID: "u-1", Status: domain.LeaveStatusFirstRejected}))
	assert.False(t, filter.Matches(domain.LeaveRequest{RequesterID: "u-2", Status: domain.LeaveStatusPendingFirst}))
}

func TestLeaveScope_ReviewerDefaults(t *testing.T) {
	first, err := LeaveScope(&domain.Actor{ID: "r-1", Role: domain.RoleFirstLineReviewer}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.LeaveStatus{
		domain.LeaveStatusPendingFirst, domain.LeaveStatusFirstApproved, domain.LeaveStatusFirstRejected,
	}, first.Statuses)
	assert.Nil(t, first.RequesterID)

	final, err := LeaveScope(&domain.Actor{ID: "r-2", Role: domain.RoleFinalReviewer}, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.LeaveStatus{
		domain.LeaveStatusFirstApproved, domain.LeaveStatusFinalApproved, domain.LeaveStatusFinalRejected,
	}, final.Statuses)
	assert.False(t, final.Matches(domain.LeaveRequest{Status: domain.LeaveStatusPendingFirst}))
}

func TestLeaveScope_ReviewerOverrideReplacesDefault(t *testing.T) {
	actor := &domain.Actor{ID: "r-2", Role: domain.RoleFinalReviewer}

	filter, err := LeaveScope(actor, []domain.LeaveStatus{domain.LeaveStatusPendingFirst}, strPtr("u-9"))

	require.NoError(t, err)
	assert.Equal(t, []domain.LeaveStatus{domain.LeaveStatusPendingFirst}, filter.Statuses)
	require.NotNil(t, filter.RequesterID)
	assert.Equal(t, "u-9", *filter.RequesterID)
	assert.True(t, filter.Matches(domain.LeaveRequest{RequesterID: "u-9", Status: domain.LeaveStatusPendingFirst}))
}

func TestLeaveScope_Errors(t *testing.T) {
	_, err := LeaveScope(nil, nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = LeaveScope(&domain.Actor{ID: "x", Role: "janitor"}, nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestActorScope(t *testing.T) {
	first := &domain.Actor{ID: "r-1", Role: domain.RoleFirstLineReviewer, Department: "CSE", Section: "A"}
	filter, err := ActorScope(first, nil)
	require.NoError(t, err)
	assert.True(t, filter.Matches(domain.Actor{Role: domain.RoleRequester, Department: "CSE", Section: "A"}))
	assert.False(t, filter.Matches(domain.Actor{Role: domain.RoleRequester, Department: "CSE", Section: "B"}))
	assert.False(t, filter.Matches(domain.Actor{Role: domain.RoleFinalReviewer, Department: "CSE", Section: "A"}))

	final := &domain.Actor{ID: "r-2", Role: domain.RoleFinalReviewer, Department: "CSE"}
	role := domain.RoleFirstLineReviewer
	filter, err = ActorScope(final, &role)
	require.NoError(t, err)
	assert.Nil(t, filter.Section)
	assert.True(t, filter.Matches(domain.Actor{Role: domain.RoleFirstLineReviewer, Department: "CSE", Section: "Z"}))
	assert.False(t, filter.Matches(domain.Actor{Role: domain.RoleFirstLineReviewer, Department: "EEE"}))

	_, err = ActorScope(&domain.Actor{Role: domain.RoleRequester}, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}
