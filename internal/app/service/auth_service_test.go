package service

import (
	"context"
	"testing"
	"time"

	"github.com/park1112/next-snp-management-sub002/internal/app/model"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/db"
	"github.com/park1112/next-snp-management-sub002/pkg/redis"
	"github.com/park1112/next-snp-management-sub002/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAuthService(
		repository.NewUserRepository(testDB),
		redis.NewMemoryBlacklist(),
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	first, tokens, err := authService.Register(RegisterInput{
		Email: "Boss@Example.com", Password: "password123", Name: "대표", Phone: "010-1234-5678",
	})
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", first.Email)
	assert.Equal(t, model.RoleAdmin, first.Role, "first account administers")
	assert.NotEmpty(t, tokens.AccessToken)

	second, _, err := authService.Register(RegisterInput{
		Email: "crew@example.com", Password: "password123", Name: "반장",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, second.Role)

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "Duplicate email",
			input:   RegisterInput{Email: "boss@example.com", Password: "password456", Name: "다른사람"},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name:    "Short password",
			input:   RegisterInput{Email: "new@example.com", Password: "short", Name: "신규"},
			wantErr: model.ErrValidation,
		},
		{
			name:    "Missing name",
			input:   RegisterInput{Email: "new@example.com", Password: "password123"},
			wantErr: model.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.Register(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)
	_, _, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	user, tokens, err := authService.Login("test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	authService := setupAuthServiceTest(t)
	_, tokens, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test"})
	require.NoError(t, err)

	_, err = authService.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken, "access token cannot refresh")

	next, err := authService.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	_, err = authService.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked, "refresh token is single use")

	claims, err := util.ValidateToken(next.RefreshToken, testJWTSecret)
	require.NoError(t, err)
	require.NoError(t, authService.Logout(ctx, claims))
	_, err = authService.Refresh(ctx, next.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)
	user, _, err := authService.Register(RegisterInput{Email: "test@example.com", Password: "password123", Name: "Old", Phone: "010-0000-0000"})
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "새이름", "")
	require.NoError(t, err)
	assert.Equal(t, "새이름", updated.Name)
	assert.Equal(t, "010-0000-0000", updated.Phone)

	_, err = authService.UpdateProfile(9999, "x", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
