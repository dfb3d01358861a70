package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

type stubActors map[string]*domain.Actor

func (s stubActors) GetByID(_ context.Context, id string) (*domain.Actor, error) {
	if actor, ok := s[id]; ok {
		return actor, nil
	}
	return nil, pgx.ErrNoRows
}

type stubRevocations map[string]bool

func (s stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, expiresAt, err := tm.GenerateToken("actor-1", domain.RoleFinalReviewer)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "actor-1", claims.ActorID())
	assert.Equal(t, domain.RoleFinalReviewer, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Greater(t, claims.Remaining(time.Now()), 14*time.Minute)
}

func TestTokenManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenManager("secret-a", 15)
	token, _, err := issuer.GenerateToken("actor-1", domain.RoleRequester)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 15).ParseToken(token)
	assert.Error(t, err)

	expired := NewTokenManager("secret-a", 1)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken("actor-1", domain.RoleRequester)
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.Error(t, ComparePassword(hash, "wrong"))

	err = ValidatePassword("password", "short")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.NoError(t, ValidatePassword("password", "long enough"))
}

func newTestApp(m *AuthMiddleware, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	handlers := append([]fiber.Handler{m.Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor, _ := ActorFromContext(c)
		return c.SendString(actor.ID)
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	actors := stubActors{
		"req-1": {ID: "req-1", Role: domain.RoleRequester},
		"rev-1": {ID: "rev-1", Role: domain.RoleFirstLineReviewer},
	}
	requesterToken, _, err := tm.GenerateToken("req-1", domain.RoleRequester)
	require.NoError(t, err)
	reviewerToken, _, err := tm.GenerateToken("rev-1", domain.RoleFirstLineReviewer)
	require.NoError(t, err)
	ghostToken, _, err := tm.GenerateToken("ghost", domain.RoleRequester)
	require.NoError(t, err)
	revokedToken, _, err := tm.GenerateToken("req-1", domain.RoleRequester)
	require.NoError(t, err)
	revokedClaims, err := tm.ParseToken(revokedToken)
	require.NoError(t, err)

	m := NewAuthMiddleware(tm, actors, stubRevocations{revokedClaims.ID: true})
	app := newTestApp(m, RequireReviewer())

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"unknown actor", "Bearer " + ghostToken, http.StatusUnauthorized},
		{"revoked token", "Bearer " + revokedToken, http.StatusUnauthorized},
		{"requester blocked by guard", "Bearer " + requesterToken, http.StatusForbidden},
		{"reviewer allowed", "Bearer " + reviewerToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_NilRevocationChecker(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	token, _, err := tm.GenerateToken("req-1", domain.RoleRequester)
	require.NoError(t, err)

	app := newTestApp(NewAuthMiddleware(tm, stubActors{"req-1": {ID: "req-1", Role: domain.RoleRequester}}, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
