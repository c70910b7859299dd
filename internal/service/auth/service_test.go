package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository/memory"
	"github.com/rescuenet/rescuenet-api/pkg/auth"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/security"
)

func newService(t *testing.T) (*Service, auth.JWTService) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", "rescuenet", time.Hour)
	require.NoError(t, err)
	logger := zerolog.Nop()
	return NewService(memory.NewUserRepository(), tokens, security.NewBcryptHasher(bcrypt.MinCost), &logger), tokens
}

func register(t *testing.T, svc *Service) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Citizen Demo",
		Email:    "citizen@rescuenet.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesActiveResident(t *testing.T) {
	svc, _ := newService(t)
	u := register(t, svc)
	assert.Equal(t, model.RoleResident, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Again", Email: "citizen@rescuenet.com", Password: "password123",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestLoginIssuesToken(t *testing.T) {
	svc, tokens := newService(t)
	u := register(t, svc)

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "citizen@rescuenet.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleResident, claims.Role)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	for _, req := range []model.LoginRequest{
		{Email: "citizen@rescuenet.com", Password: "wrong-password"},
		{Email: "nobody@rescuenet.com", Password: "password123"},
	} {
		_, err := svc.Login(context.Background(), req)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid login credentials", appErr.Message)
	}
}
