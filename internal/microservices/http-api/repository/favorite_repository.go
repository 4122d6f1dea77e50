package repository

import (
	"context"
	"fmt"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Favorite, error)
	FindByUserAndEntry(ctx context.Context, userID, entryID int64) (*models.Favorite, error)
	// Save reports false when the favorite was already there.
	Save(ctx context.Context, fav *models.Favorite) (bool, error)
	DeleteByUserAndEntry(ctx context.Context, userID, entryID int64) (bool, error)
	FindByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	FindByEntry(ctx context.Context, entryID int64) ([]models.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) FindByID(ctx context.Context, id int64) (*models.Favorite, error) {
	var fav models.Favorite
	if err := conn(ctx, r.db).First(&fav, id).Error; err != nil {
		return nil, notFound("find favorite", err)
	}
	return &fav, nil
}

func (r *favoriteRepository) FindByUserAndEntry(ctx context.Context, userID, entryID int64) (*models.Favorite, error) {
	var fav models.Favorite
	err := conn(ctx, r.db).
		Where("user_id = ? AND entry_id = ?", userID, entryID).
		First(&fav).Error
	if err != nil {
		return nil, notFound("find favorite", err)
	}
	return &fav, nil
}

func (r *favoriteRepository) Save(ctx context.Context, fav *models.Favorite) (bool, error) {
	fav.ID = 0
	res := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_id"}},
		DoNothing: true,
	}).Create(fav)
	if res.Error != nil {
		return false, fmt.Errorf("add favorite: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) DeleteByUserAndEntry(ctx context.Context, userID, entryID int64) (bool, error) {
	res := conn(ctx, r.db).
		Where("user_id = ? AND entry_id = ?", userID, entryID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, fmt.Errorf("remove favorite: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) FindByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := conn(ctx, r.db).
		Preload("Entry").
		Preload("Entry.Genres").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favorites for user: %w", err)
	}
	return favs, nil
}

func (r *favoriteRepository) FindByEntry(ctx context.Context, entryID int64) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := conn(ctx, r.db).
		Where("entry_id = ?", entryID).
		Order("created_at DESC, id DESC").
		Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favorites for entry: %w", err)
	}
	return favs, nil
}
