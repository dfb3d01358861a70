package handlers

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/service"
)

// CalendarHandler manages academic calendar endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: calendarService}
}

// List GET /academic-calendar.
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	events, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		items = append(items, dto.NewCalendarEventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /academic-calendar.
func (h *CalendarHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateCalendarEventRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(err)
	}
	if err := requiredDate("start_date", req.StartDate); err != nil {
		return err
	}
	if err := requiredDate("end_date", req.EndDate); err != nil {
		return err
	}
	category := req.Category
	if category == "" {
		category = req.EventType
	}
	event, err := h.service.Create(c.UserContext(), actor, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		Category:    category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCalendarEventResponse(event)})
}

// Delete DELETE /academic-calendar/:id.
func (h *CalendarHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Import POST /academic-calendar/import with a text/calendar body.
func (h *CalendarHandler) Import(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	result, err := h.service.ImportICS(c.UserContext(), actor, bytes.NewReader(c.Body()))
	if err != nil {
		return err
	}
	created := make([]dto.CalendarEventResponse, 0, len(result.Created))
	for i := range result.Created {
		created = append(created, dto.NewCalendarEventResponse(&result.Created[i]))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ImportCalendarResponse{
		Created: created,
		Skipped: result.Skipped,
	}})
}

// Export GET /academic-calendar/export.ics.
func (h *CalendarHandler) Export(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	body, err := h.service.ExportICS(c.UserContext(), actor)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="academic-calendar.ics"`)
	return c.SendString(body)
}
