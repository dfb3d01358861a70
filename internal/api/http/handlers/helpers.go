package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
)

func currentActor(c *fiber.Ctx) (*domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func pagination(c *fiber.Ctx) (page, pageSize, offset int) {
	page = parseInt(c.Query("page"), 1)
	pageSize = parseInt(c.Query("page_size"), defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page > maxPage {
		page = maxPage
	}
	return page, pageSize, (page - 1) * pageSize
}

// parseStatuses reads a comma separated status list. Unknown values are
// rejected; known values are passed through as given.
func parseStatuses(raw string) ([]domain.LeaveStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var statuses []domain.LeaveStatus
	for _, part := range strings.Split(raw, ",") {
		status := domain.LeaveStatus(strings.TrimSpace(part))
		if status == "" {
			continue
		}
		if !knownStatus(status) {
			return nil, apperrors.NewFieldError("status", "unknown status "+string(status))
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func knownStatus(status domain.LeaveStatus) bool {
	for _, s := range domain.LeaveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func requiredDate(field string, d dto.Date) error {
	if d.IsZero() {
		return apperrors.NewFieldError(field, field+" is required (YYYY-MM-DD)")
	}
	return nil
}

func bodyError(err error) error {
	return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
}
