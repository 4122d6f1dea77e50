package dto

import (
	"time"

	"mrp/internal/microservices/http-api/models"
)

// RateRequest: stars are range-checked by the rating engine
type RateRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment" binding:"max=2000"`
}

// UpdateRatingRequest: stars is required, a missing value is a 400
type UpdateRatingRequest struct {
	Stars   *int   `json:"stars"`
	Comment string `json:"comment" binding:"max=2000"`
}

type RatingResponse struct {
	ID        int64     `json:"id"`
	EntryID   int64     `json:"entry_id"`
	UserID    int64     `json:"user_id"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment"`
	Confirmed bool      `json:"confirmed"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingListResponse struct {
	Items []RatingResponse `json:"items"`
	Total int              `json:"total"`
}

// UserRatingsResponse: a user's ratings with the mean of their stars
type UserRatingsResponse struct {
	RatingListResponse
	AverageStars float64 `json:"average_stars"`
}

type LikeResponse struct {
	ID        int64     `json:"id"`
	RatingID  int64     `json:"rating_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromRating(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		EntryID:   r.EntryID,
		UserID:    r.UserID,
		Stars:     r.StarValue,
		Comment:   r.Comment,
		Confirmed: r.Confirmed,
		LikeCount: r.LikeCount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FromRatingList(list []models.Rating) RatingListResponse {
	items := make([]RatingResponse, 0, len(list))
	for i := range list {
		items = append(items, FromRating(&list[i]))
	}
	return RatingListResponse{Items: items, Total: len(items)}
}

func FromLike(l *models.Like) LikeResponse {
	return LikeResponse{
		ID:        l.ID,
		RatingID:  l.RatingID,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
}
