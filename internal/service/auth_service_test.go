package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/testfixtures"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

type revokedTokens map[string]time.Duration

func (r revokedTokens) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r[tokenID] = ttl
	return nil
}

func newAuthEnv(allowReviewers bool) (*AuthService, *testfixtures.Actors, revokedTokens) {
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
		AllowReviewerSignup:   allowReviewers,
	}}
	actors := testfixtures.NewActors(nil)
	revoked := revokedTokens{}
	return NewAuthService(cfg, AuthDependencies{ActorRepo: actors, Revoker: revoked}), actors, revoked
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _ := newAuthEnv(false)
	ctx := context.Background()

	result, err := svc.SignUp(ctx, SignUpInput{
		Email:      "  Asha@Uni.Test ",
		Password:   "secret1",
		FullName:   "Asha",
		Department: "CSE",
		Section:    "A",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@uni.test", result.Actor.Email)
	assert.Equal(t, domain.RoleRequester, result.Actor.Role)
	assert.NotEqual(t, "secret1", result.Actor.PasswordHash)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Actor.ID, claims.ActorID())

	signedIn, err := svc.SignIn(ctx, "ASHA@uni.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, result.Actor.ID, signedIn.Actor.ID)

	_, err = svc.SignIn(ctx, "asha@uni.test", "wrong-password")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	_, err = svc.SignIn(ctx, "nobody@uni.test", "secret1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = svc.SignUp(ctx, SignUpInput{Email: "asha@uni.test", Password: "secret1", FullName: "Other"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _ := newAuthEnv(false)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "nope", Password: "secret1", FullName: "X"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	_, err = svc.SignUp(ctx, SignUpInput{Email: "x@uni.test", Password: "short", FullName: "X"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	_, err = svc.SignUp(ctx, SignUpInput{Email: "x@uni.test", Password: "secret1", FullName: "X", Role: "dean"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	_, err = svc.SignUp(ctx, SignUpInput{Email: "x@uni.test", Password: "secret1", FullName: "X", Role: "final_reviewer"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestSignUp_ReviewerWhenAllowed(t *testing.T) {
	svc, _, _ := newAuthEnv(true)

	result, err := svc.SignUp(context.Background(), SignUpInput{
		Email: "farid@uni.test", Password: "secret1", FullName: "Farid", Role: "first_line_reviewer",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleFirstLineReviewer, result.Actor.Role)
}

func TestSignOutRevokesTokenForRemainingLifetime(t *testing.T) {
	svc, _, revoked := newAuthEnv(false)
	ctx := context.Background()
	result, err := svc.SignUp(ctx, SignUpInput{Email: "a@uni.test", Password: "secret1", FullName: "A"})
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))

	ttl, ok := revoked[claims.ID]
	require.True(t, ok)
	assert.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)

	assert.True(t, apperrors.IsCode(svc.SignOut(ctx, nil), apperrors.CodeUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthEnv(false)
	ctx := context.Background()
	result, err := svc.SignUp(ctx, SignUpInput{Email: "a@uni.test", Password: "secret1", FullName: "A"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, result.Actor, "bad-guess", "secret2")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	err = svc.ChangePassword(ctx, result.Actor, "secret1", "tiny")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(ctx, result.Actor, "secret1", "secret2"))
	_, err = svc.SignIn(ctx, "a@uni.test", "secret2")
	assert.NoError(t, err)

	profile, err := svc.Profile(ctx, result.Actor)
	require.NoError(t, err)
	assert.Equal(t, "a@uni.test", profile.Email)
}
