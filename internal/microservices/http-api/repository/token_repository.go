package repository

import (
	"context"
	"fmt"
	"time"

	"mrp/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository stores session tokens, at most one per user.
type TokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.Token, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Token, error)
	// Save replaces any token the user already holds.
	Save(ctx context.Context, token *models.Token) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	FindAll(ctx context.Context) ([]models.Token, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// tokenRepository is the GORM implementation of TokenRepository
type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*models.Token, error) {
	var t models.Token
	if err := conn(ctx, r.db).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, notFound("find token", err)
	}
	return &t, nil
}

func (r *tokenRepository) FindByUserID(ctx context.Context, userID int64) (*models.Token, error) {
	var t models.Token
	if err := conn(ctx, r.db).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, notFound("find token by user", err)
	}
	return &t, nil
}

// Save upserts on user_id so two concurrent logins leave exactly one row.
func (r *tokenRepository) Save(ctx context.Context, token *models.Token) error {
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "created_at", "expires_at"}),
	}).Create(token).Error
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := conn(ctx, r.db).Where("token = ?", token).Delete(&models.Token{}).Error; err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if err := conn(ctx, r.db).Where("user_id = ?", userID).Delete(&models.Token{}).Error; err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}

func (r *tokenRepository) FindAll(ctx context.Context) ([]models.Token, error) {
	var tokens []models.Token
	if err := conn(ctx, r.db).Order("user_id").Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return tokens, nil
}

// DeleteExpired removes every token whose expiry is at or before now.
func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := conn(ctx, r.db).Where("expires_at <= ?", now).Delete(&models.Token{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
