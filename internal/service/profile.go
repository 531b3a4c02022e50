package service

import (
	"context"

	"github.com/skovalev/blueprinthub/internal/hash"
	"github.com/skovalev/blueprinthub/internal/logging"
	"github.com/skovalev/blueprinthub/internal/models"
	"github.com/skovalev/blueprinthub/internal/repo"
)

type Profile struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *AuthService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Profile{Email: user.Email, Role: user.Role}, nil
}

type ProfileUpdate struct {
	Email    string
	Password string
	Role     string
}

// UpdateProfile applies only the fields that are set; an empty update is a
// no-op that still succeeds.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) error {
	l := logging.FromContext(ctx).With("svc", "auth.update_profile")

	if upd.Role != "" && !models.ValidRole(upd.Role) {
		return repo.ErrInvalidRole
	}

	if upd.Email != "" {
		if err := s.Repo.UpdateEmail(ctx, userID, upd.Email); err != nil {
			return err
		}
	}
	if upd.Password != "" {
		pwHash, err := hash.HashPassword(upd.Password)
		if err != nil {
			return err
		}
		if err := s.Repo.UpdatePassword(ctx, userID, pwHash); err != nil {
			return err
		}
	}
	if upd.Role != "" {
		if err := s.Repo.UpdateRole(ctx, userID, upd.Role); err != nil {
			return err
		}
	}

	l.Info("profile_updated", "user_id", userID)
	return nil
}

func (s *AuthService) Dashboard(ctx context.Context, userID uint) (*repo.UserSummary, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &repo.UserSummary{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]repo.UserSummary, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.delete_user")

	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	l.Info("user_deleted", "user_id", userID)
	return nil
}
