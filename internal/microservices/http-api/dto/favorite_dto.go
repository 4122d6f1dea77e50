package dto

import (
	"time"

	"mrp/internal/microservices/http-api/models"
)

// FavoriteResponse: one favorite, with the entry when it was loaded
type FavoriteResponse struct {
	ID        int64          `json:"id"`
	EntryID   int64          `json:"entry_id"`
	UserID    int64          `json:"user_id"`
	Entry     *MediaResponse `json:"entry,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type FavoriteListResponse struct {
	Items []FavoriteResponse `json:"items"`
	Total int                `json:"total"`
}

func FromFavorite(f *models.Favorite) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        f.ID,
		EntryID:   f.EntryID,
		UserID:    f.UserID,
		CreatedAt: f.CreatedAt,
	}
	if f.Entry != nil {
		m := FromMedia(f.Entry)
		resp.Entry = &m
	}
	return resp
}

func FromFavoriteList(list []models.Favorite) FavoriteListResponse {
	items := make([]FavoriteResponse, 0, len(list))
	for i := range list {
		items = append(items, FromFavorite(&list[i]))
	}
	return FavoriteListResponse{Items: items, Total: len(items)}
}
