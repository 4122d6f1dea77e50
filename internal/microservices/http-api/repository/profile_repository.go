package repository

import (
	"context"
	"fmt"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type UserProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error
}

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

func (r *userProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if err := conn(ctx, r.db).Create(profile).Error; err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *userProfileRepository) FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := conn(ctx, r.db).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound("find profile", err)
	}
	return &profile, nil
}

func (r *userProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	res := conn(ctx, r.db).Model(&models.UserProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]any{
			"email":          profile.Email,
			"favorite_genre": profile.FavoriteGenre,
		})
	if res.Error != nil {
		return fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
