package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	original := NewFieldError("comment", "comment required")
	wrapped := fmt.Errorf("review: %w", original)

	got := ToDomainError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeValidation, got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Equal(t, "comment", got.Details["field"])
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	got := ToDomainError(fmt.Errorf("get: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestToDomainError_UnknownIsOpaqueInternal(t *testing.T) {
	cause := errors.New("connection reset by peer")
	got := ToDomainError(cause)
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestToDomainError_FiberErrors(t *testing.T) {
	got := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, CodeNotFound, got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)

	got = ToDomainError(fiber.NewError(http.StatusServiceUnavailable, "busy"))
	assert.Equal(t, CodeInternal, got.Code)
}

func TestNewStateError_CarriesActionAndStatuses(t *testing.T) {
	err := NewStateError("approve", "pending_first", "first_approved")
	got := ToDomainError(err)
	assert.Equal(t, CodeInvalidState, got.Code)
	assert.Equal(t, http.StatusConflict, got.HTTPStatus)
	assert.Equal(t, "approve", got.Details["action"])
	assert.Equal(t, "pending_first", got.Details["expected_status"])
	assert.Equal(t, "first_approved", got.Details["current_status"])
	assert.True(t, IsCode(err, CodeInvalidState))
	assert.False(t, IsCode(err, CodeForbidden))
	assert.False(t, IsCode(errors.New("plain"), CodeInvalidState))
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Nil(t, ToDomainError(nil))
}
