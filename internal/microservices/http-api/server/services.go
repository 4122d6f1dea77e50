package server

import (
	"mrp/internal/config"
	"mrp/internal/microservices/http-api/repository"
	"mrp/internal/microservices/http-api/service"
	"mrp/internal/middleware/auth"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Services is the assembled service layer the HTTP surface sits on.
type Services struct {
	Sessions  service.SessionService
	Users     service.UserService
	Media     service.MediaService
	Ratings   service.RatingService
	Favorites service.FavoriteService
	Guard     service.AuthorizationGuard
}

// NewServices builds every service on top of db. Tokens live in tokens,
// which is either the postgres table or redis.
func NewServices(cfg *config.Config, db *gorm.DB, tokens repository.TokenRepository, log zerolog.Logger, opts ...service.SessionOption) Services {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	guard := service.NewAuthorizationGuard()
	tx := repository.NewTransactor(db)

	userRepo := repository.NewUserRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	if cfg.TokenFormat == config.TokenFormatLegacy {
		opts = append([]service.SessionOption{service.WithTokenGenerator(service.LegacyTokens)}, opts...)
	}

	return Services{
		Sessions: service.NewSessionService(userRepo, tokens, hasher, cfg.TokenTTL,
			log.With().Str("component", "sessions").Logger(), opts...),
		Users: service.NewUserService(tx, userRepo, repository.NewUserProfileRepository(db), hasher, guard,
			log.With().Str("component", "users").Logger()),
		Media: service.NewMediaService(tx, mediaRepo, guard,
			log.With().Str("component", "media").Logger()),
		Ratings: service.NewRatingService(tx, repository.NewRatingRepository(db), repository.NewLikeRepository(db), mediaRepo,
			log.With().Str("component", "ratings").Logger()),
		Favorites: service.NewFavoriteService(repository.NewFavoriteRepository(db), mediaRepo, guard,
			log.With().Str("component", "favorites").Logger()),
		Guard: guard,
	}
}
