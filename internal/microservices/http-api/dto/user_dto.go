package dto

import "mrp/internal/microservices/http-api/models"

// UpdateProfileRequest: absent fields are left unchanged
type UpdateProfileRequest struct {
	Email         *string `json:"email" binding:"omitempty,email"`
	FavoriteGenre *string `json:"favorite_genre" binding:"omitempty,max=64"`
}

type ProfileResponse struct {
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FavoriteGenre string `json:"favorite_genre"`
}

func FromProfile(user *models.User, p *models.UserProfile) ProfileResponse {
	return ProfileResponse{
		UserID:        p.UserID,
		Username:      user.Username,
		Email:         p.Email,
		FavoriteGenre: p.FavoriteGenre,
	}
}
