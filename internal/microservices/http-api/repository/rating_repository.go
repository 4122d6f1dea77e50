package repository

import (
	"context"
	"fmt"
	"time"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Rating, error)
	FindByEntryAndUser(ctx context.Context, entryID, userID int64) (*models.Rating, error)
	// Upsert inserts the rating or overwrites stars and comment of the
	// existing (entry, user) row. Confirmed is never reset. rating is
	// refreshed from the stored row.
	Upsert(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	SetConfirmed(ctx context.Context, id int64) error
	DeleteByID(ctx context.Context, id int64) (bool, error)
	CalculateAverageRating(ctx context.Context, entryID int64) (float64, error)
	FindByEntry(ctx context.Context, entryID int64) ([]models.Rating, error)
	FindByUser(ctx context.Context, userID int64) ([]models.Rating, error)
	CountByEntry(ctx context.Context, entryID int64) (int64, error)
	AverageByUser(ctx context.Context, userID int64) (float64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

const ratingWithLikes = "ratings.*, (SELECT COUNT(*) FROM likes WHERE likes.rating_id = ratings.id) AS like_count"

func (r *ratingRepository) FindByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	if err := conn(ctx, r.db).Select(ratingWithLikes).First(&rating, id).Error; err != nil {
		return nil, notFound("find rating", err)
	}
	return &rating, nil
}

func (r *ratingRepository) FindByEntryAndUser(ctx context.Context, entryID, userID int64) (*models.Rating, error) {
	var rating models.Rating
	err := conn(ctx, r.db).Select(ratingWithLikes).
		Where("entry_id = ? AND user_id = ?", entryID, userID).
		First(&rating).Error
	if err != nil {
		return nil, notFound("find rating by entry and user", err)
	}
	return &rating, nil
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	db := conn(ctx, r.db)
	now := time.Now()
	rating.ID = 0
	rating.Confirmed = false
	rating.CreatedAt = now
	rating.UpdatedAt = now

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"star_value", "comment", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}

	// the returned id is unreliable on the update path, read the row back
	stored, err := r.FindByEntryAndUser(ctx, rating.EntryID, rating.UserID)
	if err != nil {
		return fmt.Errorf("reload rating: %w", err)
	}
	*rating = *stored
	return nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	res := conn(ctx, r.db).Model(&models.Rating{}).Where("id = ?", rating.ID).Updates(map[string]any{
		"star_value": rating.StarValue,
		"comment":    rating.Comment,
	})
	if res.Error != nil {
		return fmt.Errorf("update rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ratingRepository) SetConfirmed(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Model(&models.Rating{}).Where("id = ?", id).Update("confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("confirm rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes the rating and its likes. Call inside a transaction.
func (r *ratingRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	db := conn(ctx, r.db)
	if err := db.Where("rating_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return false, fmt.Errorf("delete rating likes: %w", err)
	}
	res := db.Delete(&models.Rating{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete rating: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CalculateAverageRating returns 0 for an entry nobody has rated.
func (r *ratingRepository) CalculateAverageRating(ctx context.Context, entryID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := conn(ctx, r.db).Model(&models.Rating{}).
		Select("COALESCE(AVG(star_value), 0) as average").
		Where("entry_id = ?", entryID).
		Scan(&avg).Error

	if err != nil {
		return 0, fmt.Errorf("calculate average rating: %w", err)
	}

	return avg.Average, nil
}

func (r *ratingRepository) FindByEntry(ctx context.Context, entryID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := conn(ctx, r.db).Select(ratingWithLikes).
		Where("entry_id = ?", entryID).
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings for entry: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) FindByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := conn(ctx, r.db).Select(ratingWithLikes).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings for user: %w", err)
	}
	return ratings, nil
}

// CountByEntry counts the total number of ratings for an entry
func (r *ratingRepository) CountByEntry(ctx context.Context, entryID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Rating{}).Where("entry_id = ?", entryID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return count, nil
}

func (r *ratingRepository) AverageByUser(ctx context.Context, userID int64) (float64, error) {
	var avg struct {
		Average float64
	}
	err := conn(ctx, r.db).Model(&models.Rating{}).
		Select("COALESCE(AVG(star_value), 0) as average").
		Where("user_id = ?", userID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("average rating for user: %w", err)
	}
	return avg.Average, nil
}
