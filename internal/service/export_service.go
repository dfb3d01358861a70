package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const (
	exportSheet   = "Leave Requests"
	exportMaxRows = 5000
	exportDate    = "2006-01-02"
)

var exportHeaders = []string{
	"ID", "Requester", "Email", "Department", "Section", "Category",
	"Start", "End", "Days", "Status", "Justification",
	"First Comment", "First Reviewed", "Final Comment", "Final Reviewed", "Submitted",
}

// ExportService renders leave requests as spreadsheets.
type ExportService struct {
	requests repository.LeaveRequestRepository
	logger   *zap.Logger
	now      func() time.Time
}

// ExportDependencies bundles export service collaborators.
type ExportDependencies struct {
	LeaveRepo repository.LeaveRequestRepository
	Logger    *zap.Logger
	Now       func() time.Time
}

// NewExportService constructs the service.
func NewExportService(deps ExportDependencies) *ExportService {
	return &ExportService{
		requests: deps.LeaveRepo,
		logger:   defaultLogger(deps.Logger),
		now:      defaultClock(deps.Now),
	}
}

// ExportLeaveRequests writes the requests visible to a reviewer into an XLSX
// workbook. It returns the workbook and a suggested file name.
func (s *ExportService) ExportLeaveRequests(ctx context.Context, actor *domain.Actor, input ListLeaveInput) (*bytes.Buffer, string, error) {
	if err := requireReviewer(actor, "only reviewers can export leave requests"); err != nil {
		return nil, "", err
	}
	filter, err := leaveScope(actor, input)
	if err != nil {
		return nil, "", err
	}
	requests, err := s.requests.ListWithFilter(ctx, filter, exportMaxRows, 0)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle)
	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "F", 18)
	_ = f.SetColWidth(exportSheet, "K", "K", 48)
	_ = f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for row, req := range requests {
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetSheetRow(exportSheet, cell, &[]any{
			req.ID,
			requesterField(req, func(r *domain.RequesterInfo) string { return r.FullName }),
			requesterField(req, func(r *domain.RequesterInfo) string { return r.Email }),
			requesterField(req, func(r *domain.RequesterInfo) string { return r.Department }),
			requesterField(req, func(r *domain.RequesterInfo) string { return r.Section }),
			string(req.Category),
			req.StartDate.Format(exportDate),
			req.EndDate.Format(exportDate),
			leaveDays(req),
			string(req.Status),
			req.Justification,
			stringOrEmpty(req.FirstReview.Comment),
			timeOrEmpty(req.FirstReview.ReviewedAt),
			stringOrEmpty(req.FinalReview.Comment),
			timeOrEmpty(req.FinalReview.ReviewedAt),
			req.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			s.logger.Error("write export row", zap.Int("row", row+2), zap.Error(err))
			return nil, "", apperrors.NewInternalError(err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write export workbook", zap.Error(err))
		return nil, "", apperrors.NewInternalError(err)
	}
	filename := fmt.Sprintf("leave-requests-%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// leaveDays counts calendar days in the closed interval.
func leaveDays(req domain.LeaveRequest) int {
	start := domain.TruncateDay(req.StartDate)
	end := domain.TruncateDay(req.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

func requesterField(req domain.LeaveRequest, get func(*domain.RequesterInfo) string) string {
	if req.Requester == nil {
		return ""
	}
	return get(req.Requester)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
