package repository

import (
	"context"
	"fmt"
	"strings"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort orders accepted by MediaFilter.SortBy.
const (
	SortByTitle       = "title"
	SortByScore       = "score"
	SortByRating      = "rating"
	SortByReleaseYear = "releaseYear"
)

// MediaFilter narrows FindAll. Zero values mean "no constraint".
type MediaFilter struct {
	Title          string
	Genre          string
	MediaType      models.MediaType
	ReleaseYear    *int
	AgeRestriction *int
	MinRating      *float64
	SortBy         string
}

type MediaRepository interface {
	Create(ctx context.Context, entry *models.MediaEntry) error
	FindByID(ctx context.Context, id int64) (*models.MediaEntry, error)
	// FindByIDForUpdate locks the row for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id int64) (*models.MediaEntry, error)
	FindAll(ctx context.Context, filter MediaFilter) ([]models.MediaEntry, error)
	FindByCreator(ctx context.Context, creatorID int64) ([]models.MediaEntry, error)
	FindByRatingID(ctx context.Context, ratingID int64) (*models.MediaEntry, error)
	Update(ctx context.Context, entry *models.MediaEntry) error
	Delete(ctx context.Context, id int64) error
	UpdateAverageRating(ctx context.Context, id int64, avg float64) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, entry *models.MediaEntry) error {
	// GORM will populate entry.ID and create the genre rows
	if err := conn(ctx, r.db).Create(entry).Error; err != nil {
		return fmt.Errorf("create media entry: %w", err)
	}
	return nil
}

func (r *mediaRepository) FindByID(ctx context.Context, id int64) (*models.MediaEntry, error) {
	var m models.MediaEntry
	if err := conn(ctx, r.db).Preload("Genres").First(&m, id).Error; err != nil {
		return nil, notFound("find media entry", err)
	}
	return &m, nil
}

func (r *mediaRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.MediaEntry, error) {
	var m models.MediaEntry
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, notFound("lock media entry", err)
	}
	return &m, nil
}

func (r *mediaRepository) FindAll(ctx context.Context, f MediaFilter) ([]models.MediaEntry, error) {
	q := conn(ctx, r.db).Model(&models.MediaEntry{}).Preload("Genres")

	if t := strings.TrimSpace(f.Title); t != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(t)+"%")
	}
	if g := strings.TrimSpace(f.Genre); g != "" {
		q = q.Where("EXISTS (SELECT 1 FROM media_genres mg WHERE mg.entry_id = media_entries.id AND LOWER(mg.genre) LIKE ?)",
			"%"+strings.ToLower(g)+"%")
	}
	if f.MediaType != "" {
		q = q.Where("media_type = ?", f.MediaType)
	}
	if f.ReleaseYear != nil {
		q = q.Where("release_year = ?", *f.ReleaseYear)
	}
	if f.AgeRestriction != nil {
		q = q.Where("age_restriction <= ?", *f.AgeRestriction)
	}
	if f.MinRating != nil {
		q = q.Where("average_rating >= ?", *f.MinRating)
	}

	switch f.SortBy {
	case SortByTitle:
		q = q.Order("title ASC")
	case SortByScore, SortByRating:
		q = q.Order("average_rating DESC")
	case SortByReleaseYear:
		q = q.Order("release_year DESC")
	}
	q = q.Order("id ASC")

	var list []models.MediaEntry
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list media entries: %w", err)
	}
	return list, nil
}

func (r *mediaRepository) FindByCreator(ctx context.Context, creatorID int64) ([]models.MediaEntry, error) {
	var list []models.MediaEntry
	if err := conn(ctx, r.db).Preload("Genres").
		Where("creator_id = ?", creatorID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list media by creator: %w", err)
	}
	return list, nil
}

func (r *mediaRepository) FindByRatingID(ctx context.Context, ratingID int64) (*models.MediaEntry, error) {
	var m models.MediaEntry
	err := conn(ctx, r.db).Preload("Genres").
		Joins("JOIN ratings ON ratings.entry_id = media_entries.id").
		Where("ratings.id = ?", ratingID).
		First(&m).Error
	if err != nil {
		return nil, notFound("find media by rating", err)
	}
	return &m, nil
}

// Update rewrites the entry and replaces its genres. Call inside a transaction.
func (r *mediaRepository) Update(ctx context.Context, entry *models.MediaEntry) error {
	db := conn(ctx, r.db)
	res := db.Model(&models.MediaEntry{}).Where("id = ?", entry.ID).Updates(map[string]any{
		"title":           entry.Title,
		"description":     entry.Description,
		"media_type":      entry.MediaType,
		"release_year":    entry.ReleaseYear,
		"age_restriction": entry.AgeRestriction,
	})
	if res.Error != nil {
		return fmt.Errorf("update media entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := db.Where("entry_id = ?", entry.ID).Delete(&models.MediaGenre{}).Error; err != nil {
		return fmt.Errorf("clear media genres: %w", err)
	}
	if len(entry.Genres) == 0 {
		return nil
	}
	for i := range entry.Genres {
		entry.Genres[i].ID = 0
		entry.Genres[i].EntryID = entry.ID
	}
	if err := db.Create(&entry.Genres).Error; err != nil {
		return fmt.Errorf("write media genres: %w", err)
	}
	return nil
}

// Delete removes the entry with its genres, favorites, ratings and their likes.
// Call inside a transaction.
func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	db := conn(ctx, r.db)
	steps := []struct {
		what  string
		query string
	}{
		{"likes", "DELETE FROM likes WHERE rating_id IN (SELECT id FROM ratings WHERE entry_id = ?)"},
		{"ratings", "DELETE FROM ratings WHERE entry_id = ?"},
		{"favorites", "DELETE FROM favorites WHERE entry_id = ?"},
		{"genres", "DELETE FROM media_genres WHERE entry_id = ?"},
	}
	for _, s := range steps {
		if err := db.Exec(s.query, id).Error; err != nil {
			return fmt.Errorf("delete media %s: %w", s.what, err)
		}
	}
	res := db.Delete(&models.MediaEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete media entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mediaRepository) UpdateAverageRating(ctx context.Context, id int64, avg float64) error {
	res := conn(ctx, r.db).Model(&models.MediaEntry{}).
		Where("id = ?", id).
		UpdateColumn("average_rating", avg)
	if res.Error != nil {
		return fmt.Errorf("update average rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
