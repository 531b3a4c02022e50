package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skovalev/blueprinthub/internal/models"
)

func (r *GormRepo) SaveBlueprint(ctx context.Context, bp *models.Blueprint) (uint, error) {
	if err := r.DB.WithContext(ctx).Create(bp).Error; err != nil {
		return 0, err
	}
	return bp.ID, nil
}

func (r *GormRepo) GetBlueprint(ctx context.Context, id uint) (*models.Blueprint, error) {
	var bp models.Blueprint
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&bp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlueprintNotFound
		}
		return nil, err
	}
	return &bp, nil
}

func (r *GormRepo) ListBlueprints(ctx context.Context, ownerID uint) ([]models.Blueprint, error) {
	var bps []models.Blueprint
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Find(&bps).Error; err != nil {
		return nil, err
	}
	return bps, nil
}

func (r *GormRepo) DeleteBlueprint(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Blueprint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlueprintNotFound
	}
	return nil
}

func (r *GormRepo) UpdateBlueprintColor(ctx context.Context, id uint, color string) error {
	result := r.DB.WithContext(ctx).Model(&models.Blueprint{}).
		Where("id = ?", id).
		Update("color", color)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlueprintNotFound
	}
	return nil
}
