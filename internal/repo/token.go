package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/skovalev/blueprinthub/internal/models"
)

// Revoke inserts the jti into the blocklist. Revoking an already revoked
// token is a no-op rather than a store error.
func (r *GormRepo) Revoke(ctx context.Context, jti string) error {
	revoked := models.RevokedToken{
		JTI:       jti,
		RevokedAt: time.Now().UTC(),
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&revoked).Error
}

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneRevoked drops blocklist entries revoked before the cutoff. Entries
// older than the token lifetime are dead weight: the tokens they blocked
// have expired on their own.
func (r *GormRepo) PruneRevoked(ctx context.Context, before time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("revoked_at < ?", before).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
