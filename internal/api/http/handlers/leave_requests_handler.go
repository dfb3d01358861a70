package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LeaveRequestsHandler manages leave request endpoints.
type LeaveRequestsHandler struct {
	leaves  *service.LeaveService
	exports *service.ExportService
}

// NewLeaveRequestsHandler constructs handler.
func NewLeaveRequestsHandler(leaves *service.LeaveService, exports *service.ExportService) *LeaveRequestsHandler {
	return &LeaveRequestsHandler{leaves: leaves, exports: exports}
}

// Create POST /leave-requests.
func (h *LeaveRequestsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(err)
	}
	if err := requiredDate("start_date", req.StartDate); err != nil {
		return err
	}
	if err := requiredDate("end_date", req.EndDate); err != nil {
		return err
	}

	result, err := h.leaves.Create(c.UserContext(), actor, service.CreateLeaveInput{
		Category:      req.Category,
		StartDate:     req.StartDate.Time,
		EndDate:       req.EndDate.Time,
		Justification: req.Justification,
	})
	if err != nil {
		return err
	}

	resp := dto.CreateLeaveResponse{
		Message:           "Leave request created successfully",
		Request:           dto.NewLeaveRequestResponse(result.Request),
		AutoRejected:      result.Decision.AutoRejected(),
		ConflictingEvents: dto.NewConflictingEvents(result.Decision.Events),
	}
	switch {
	case result.Decision.AutoRejected():
		resp.Message = "Leave application auto-rejected due to academic calendar conflicts"
	case result.Decision.HasAdvisory():
		note := result.Decision.AdvisoryNote()
		resp.SystemNote = &note
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// List GET /leave-requests.
func (h *LeaveRequestsHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	input, page, pageSize, err := listInput(c)
	if err != nil {
		return err
	}
	requests, err := h.leaves.List(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	items := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewLeaveRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.PageMeta{Page: page, PageSize: pageSize, Count: len(items)},
	})
}

// Get GET /leave-requests/:id.
func (h *LeaveRequestsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	req, err := h.leaves.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeaveRequestResponse(req)})
}

// History GET /leave-requests/:id/history.
func (h *LeaveRequestsHandler) History(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	entries, err := h.leaves.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.LeaveHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewLeaveHistoryResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Review POST /leave-requests/:id/review.
func (h *LeaveRequestsHandler) Review(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.ReviewLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(err)
	}
	if req.Approved == nil {
		return apperrors.NewFieldError("approved", "approved flag is required")
	}
	updated, err := h.leaves.Review(c.UserContext(), actor, c.Params("id"), *req.Approved, req.Comment)
	if err != nil {
		return err
	}
	verb := "rejected"
	if *req.Approved {
		verb = "approved"
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Leave request %s", verb),
		"data":    dto.NewLeaveRequestResponse(updated),
	})
}

// Export GET /leave-requests/export.
func (h *LeaveRequestsHandler) Export(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	input, _, _, err := listInput(c)
	if err != nil {
		return err
	}
	buf, filename, err := h.exports.ExportLeaveRequests(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

func listInput(c *fiber.Ctx) (service.ListLeaveInput, int, int, error) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return service.ListLeaveInput{}, 0, 0, err
	}
	page, pageSize, offset := pagination(c)
	return service.ListLeaveInput{
		Statuses:    statuses,
		RequesterID: optionalQuery(c, "requester_id"),
		Limit:       pageSize,
		Offset:      offset,
	}, page, pageSize, nil
}
