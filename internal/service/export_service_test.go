package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/testfixtures"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

func TestExportLeaveRequests_WritesScopedWorkbook(t *testing.T) {
	clock := testfixtures.NewClock(time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC))
	actors := testfixtures.NewActors(clock.Now)
	requests := testfixtures.NewLeaveRequests(actors, clock.Now)
	svc := NewExportService(ExportDependencies{LeaveRepo: requests, Now: clock.Now})

	requester := actors.Seed(domain.Actor{FullName: "Asha", Email: "asha@uni.test", Role: domain.RoleRequester, Department: "CSE", Section: "A"})
	reviewer := &domain.Actor{ID: "rev-1", Role: domain.RoleFirstLineReviewer}
	pending := requests.Seed(domain.LeaveRequest{
		RequesterID:   requester.ID,
		Category:      domain.LeaveCategoryCasual,
		StartDate:     testfixtures.Day("2024-03-10"),
		EndDate:       testfixtures.Day("2024-03-12"),
		Justification: "trip",
		Status:        domain.LeaveStatusPendingFirst,
	})
	requests.Seed(domain.LeaveRequest{RequesterID: requester.ID, Status: domain.LeaveStatusFinalApproved})

	buf, filename, err := svc.ExportLeaveRequests(context.Background(), reviewer, ListLeaveInput{})
	require.NoError(t, err)
	assert.Equal(t, "leave-requests-20240320.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leave Requests"}, f.GetSheetList())
	rows, err := f.GetRows("Leave Requests")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the single first-line visible request")
	assert.Equal(t, exportHeaders, rows[0])
	row := rows[1]
	assert.Equal(t, pending.ID, row[0])
	assert.Equal(t, "Asha", row[1])
	assert.Equal(t, "casual", row[5])
	assert.Equal(t, "2024-03-10", row[6])
	assert.Equal(t, "3", row[8])
	assert.Equal(t, "pending_first", row[9])
}

func TestExportLeaveRequests_RequiresReviewer(t *testing.T) {
	svc := NewExportService(ExportDependencies{LeaveRepo: testfixtures.NewLeaveRequests(nil, nil)})

	_, _, err := svc.ExportLeaveRequests(context.Background(), &domain.Actor{ID: "u", Role: domain.RoleRequester}, ListLeaveInput{})

	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestLeaveDays(t *testing.T) {
	assert.Equal(t, 1, leaveDays(domain.LeaveRequest{StartDate: testfixtures.Day("2024-03-10"), EndDate: testfixtures.Day("2024-03-10")}))
	assert.Equal(t, 5, leaveDays(domain.LeaveRequest{StartDate: testfixtures.Day("2024-02-27"), EndDate: testfixtures.Day("2024-03-02")}))
}

func TestExportLeaveRequests_MalformedRequesterFilter(t *testing.T) {
	svc := NewExportService(ExportDependencies{LeaveRepo: testfixtures.NewLeaveRequests(nil, nil)})
	bogus := "abc"

	_, _, err := svc.ExportLeaveRequests(context.Background(), &domain.Actor{ID: "rev-1", Role: domain.RoleFinalReviewer}, ListLeaveInput{RequesterID: &bogus})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}
