package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skovalev/blueprinthub/internal/hash"
	"github.com/skovalev/blueprinthub/internal/models"
)

// CreateUser relies on the unique constraint on users.email, not on a
// check-then-insert, so concurrent registrations with the same email cannot
// both succeed.
func (r *GormRepo) CreateUser(ctx context.Context, email, passwordHash, role string) (uint, error) {
	if !models.ValidRole(role) {
		return 0, ErrInvalidRole
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return user.ID, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// VerifyCredentials collapses unknown email and wrong password into the same
// error so the caller cannot tell which one failed.
func (r *GormRepo) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (r *GormRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *GormRepo) UpdateRole(ctx context.Context, id uint, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateEmail checks the collision and applies the write in one transaction;
// the unique constraint backstops the check against races.
func (r *GormRepo) UpdateEmail(ctx context.Context, id uint, email string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		result := tx.Model(&models.User{}).Where("id = ?", id).Update("email", email)
		if result.Error != nil {
			if isDuplicate(result.Error) {
				return ErrEmailTaken
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// DeleteUser removes the user and their blueprints together. The explicit
// blueprint delete keeps sqlite test databases (no FK cascade by default)
// consistent with the postgres constraint.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Blueprint{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var users []UserSummary
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Select("id", "email", "role").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
