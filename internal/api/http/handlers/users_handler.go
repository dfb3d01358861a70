package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// UsersHandler exposes user listing and profile edits.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /users?role=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var role *domain.Role
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		parsed, ok := domain.ParseRole(raw)
		if !ok {
			return apperrors.NewFieldError("role", "unknown role")
		}
		role = &parsed
	}
	actors, err := h.service.ListActors(c.UserContext(), actor, role)
	if err != nil {
		return err
	}
	items := make([]dto.ActorResponse, 0, len(actors))
	for i := range actors {
		items = append(items, dto.NewActorResponse(&actors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateSection PATCH /users/me/section.
func (h *UsersHandler) UpdateSection(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(err)
	}
	updated, err := h.service.UpdateOwnSection(c.UserContext(), actor, req.Section)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Section updated", "data": dto.NewActorResponse(updated)})
}
