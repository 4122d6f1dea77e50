package repository

import (
	"context"
	"fmt"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	FindByRatingAndUser(ctx context.Context, ratingID, userID int64) (*models.Like, error)
	// Save is a no-op when the like exists. like is refreshed from the stored row.
	Save(ctx context.Context, like *models.Like) error
	DeleteByRatingAndUser(ctx context.Context, ratingID, userID int64) (bool, error)
	CountByRating(ctx context.Context, ratingID int64) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) FindByRatingAndUser(ctx context.Context, ratingID, userID int64) (*models.Like, error) {
	var like models.Like
	err := conn(ctx, r.db).
		Where("rating_id = ? AND user_id = ?", ratingID, userID).
		First(&like).Error
	if err != nil {
		return nil, notFound("find like", err)
	}
	return &like, nil
}

func (r *likeRepository) Save(ctx context.Context, like *models.Like) error {
	like.ID = 0
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rating_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(like).Error
	if err != nil {
		return fmt.Errorf("save like: %w", err)
	}
	stored, err := r.FindByRatingAndUser(ctx, like.RatingID, like.UserID)
	if err != nil {
		return fmt.Errorf("reload like: %w", err)
	}
	*like = *stored
	return nil
}

func (r *likeRepository) DeleteByRatingAndUser(ctx context.Context, ratingID, userID int64) (bool, error) {
	res := conn(ctx, r.db).
		Where("rating_id = ? AND user_id = ?", ratingID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("delete like: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) CountByRating(ctx context.Context, ratingID int64) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("rating_id = ?", ratingID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
