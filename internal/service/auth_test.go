package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skovalev/blueprinthub/internal/models"
	"github.com/skovalev/blueprinthub/internal/repo"
	"github.com/skovalev/blueprinthub/internal/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RevokedToken{}, &models.Blueprint{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &AuthService{
		Repo:   &repo.GormRepo{DB: db},
		Tokens: &tokens.Service{Secret: []byte("test-jwt-secret"), TTL: 15 * time.Minute},
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "a@x.com", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_DefaultRoleAndConflict(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)
	require.NotZero(t, id)

	user, err := svc.Repo.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCore, user.Role)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	_, err = svc.Register(ctx, "a@x.com", "pw2", "")
	assert.ErrorIs(t, err, repo.ErrEmailTaken)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "a@x.com", "pw1", "root")
	assert.ErrorIs(t, err, repo.ErrInvalidRole)
}

func TestAuthService_Login_IssuesVerifiableToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "a@x.com", "pw1", models.RoleAdmin)
	require.NoError(t, err)

	token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, userID)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	claims, err := svc.Tokens.Parse(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))

	revoked, err := svc.Repo.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// revoking again is fine
	require.NoError(t, svc.Logout(ctx, claims.ID))
}

func TestAuthService_ForgotPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.ForgotPassword(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)

	_, err = svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, "a@x.com")
	require.NoError(t, err)

	claims, err := svc.Tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "a@x.com", "old-pw", "")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, id, "new-pw"))

	_, err = svc.Login(ctx, "a@x.com", "old-pw")
	assert.ErrorIs(t, err, repo.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "a@x.com", "new-pw")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, id, ""), ErrValidation)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(ctx, id, ProfileUpdate{Role: models.RoleAdmin}))

	isAdmin, err := svc.IsAdmin(ctx, id)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	assert.ErrorIs(t, svc.UpdateProfile(ctx, id, ProfileUpdate{Role: "root"}), repo.ErrInvalidRole)

	// empty update is a no-op that succeeds
	require.NoError(t, svc.UpdateProfile(ctx, id, ProfileUpdate{}))
}

func TestAuthService_Dashboard(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "a@x.com", "pw1", "")
	require.NoError(t, err)

	summary, err := svc.Dashboard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, summary.ID)
	assert.Equal(t, "a@x.com", summary.Email)
	assert.Equal(t, models.RoleCore, summary.Role)

	_, err = svc.Dashboard(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}
