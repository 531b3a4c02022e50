package service

import (
	"context"

	"github.com/skovalev/blueprinthub/internal/events"
	"github.com/skovalev/blueprinthub/internal/hash"
	"github.com/skovalev/blueprinthub/internal/logging"
	"github.com/skovalev/blueprinthub/internal/models"
	"github.com/skovalev/blueprinthub/internal/repo"
	"github.com/skovalev/blueprinthub/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Events *events.Producer
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return 0, ErrValidation
	}
	if role == "" {
		role = models.RoleCore
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return 0, err
	}

	id, err := s.Repo.CreateUser(ctx, email, pwHash, role)
	if err != nil {
		return 0, err
	}

	l.Info("user_registered", "user_id", id)
	s.publish(ctx, events.TopicUserEvents, email, map[string]any{
		"event":   "user_registered",
		"user_id": id,
		"role":    role,
	})
	return id, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return "", ErrValidation
	}

	user, err := s.Repo.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.Tokens.Issue(tokens.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return "", err
	}

	l.Info("user_logged_in", "user_id", user.ID)
	s.publish(ctx, events.TopicUserEvents, user.Email, map[string]any{
		"event":   "user_logged_in",
		"user_id": user.ID,
	})
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, jti string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.Revoke(ctx, jti); err != nil {
		l.Error("logout_error", "error", err)
		return err
	}

	l.Info("token_revoked", "jti", jti)
	return nil
}

// ForgotPassword issues a short-lived session token for the reset flow. The
// token is returned to the caller for delivery; it is never placed in the
// response body. Unknown emails are reported as such: unlike login, this
// endpoint deliberately keeps the original's disclosure behavior.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.forgot_password")

	if email == "" {
		return "", ErrValidation
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := s.Tokens.Issue(tokens.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		l.Error("forgot_password_error", "reason", "cannot sign token", "error", err)
		return "", err
	}

	l.Info("password_reset_requested", "user_id", user.ID)
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, userID uint, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if password == "" {
		return ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("reset_password_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	if err := s.Repo.UpdatePassword(ctx, userID, pwHash); err != nil {
		return err
	}

	l.Info("password_reset", "user_id", userID)
	return nil
}

// IsAdmin checks the user's current role in the store, not the role baked
// into the token, so a role downgrade takes effect without waiting for the
// token to expire.
func (s *AuthService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}
