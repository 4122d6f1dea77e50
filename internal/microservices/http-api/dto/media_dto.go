package dto

import (
	"time"

	"mrp/internal/microservices/http-api/models"
)

// MediaRequest: payload to create or replace a media entry
type MediaRequest struct {
	Title          string   `json:"title" binding:"required,max=255"`
	Description    string   `json:"description"`
	MediaType      string   `json:"media_type" binding:"required,oneof=MOVIE SERIES GAME movie series game"`
	ReleaseYear    int      `json:"release_year" binding:"gte=0"`
	AgeRestriction int      `json:"age_restriction" binding:"gte=0"`
	Genres         []string `json:"genres"`
}

type MediaResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	MediaType      string    `json:"media_type"`
	ReleaseYear    int       `json:"release_year"`
	AgeRestriction int       `json:"age_restriction"`
	Genres         []string  `json:"genres"`
	CreatorID      int64     `json:"creator_id"`
	AverageRating  float64   `json:"average_rating"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type MediaListResponse struct {
	Items []MediaResponse `json:"items"`
	Total int             `json:"total"`
}

func FromMedia(m *models.MediaEntry) MediaResponse {
	return MediaResponse{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		MediaType:      string(m.MediaType),
		ReleaseYear:    m.ReleaseYear,
		AgeRestriction: m.AgeRestriction,
		Genres:         m.GenreNames(),
		CreatorID:      m.CreatorID,
		AverageRating:  m.AverageRating,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromMediaList(list []models.MediaEntry) MediaListResponse {
	items := make([]MediaResponse, 0, len(list))
	for i := range list {
		items = append(items, FromMedia(&list[i]))
	}
	return MediaListResponse{Items: items, Total: len(items)}
}
