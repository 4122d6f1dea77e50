package service

import (
	"context"
	"errors"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"

	"github.com/rs/zerolog"
)

var ErrAlreadyFavorite = errors.New("entry already in favorites")

type FavoriteService interface {
	AddFavorite(ctx context.Context, entryID int64, user *models.User) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, entryID int64, user *models.User) (bool, error)
	FavoritesForUser(ctx context.Context, userID int64) ([]models.Favorite, error)
	FavoritesForEntry(ctx context.Context, entryID int64) ([]models.Favorite, error)
}

type favoriteService struct {
	favRepo   repository.FavoriteRepository
	mediaRepo repository.MediaRepository
	guard     AuthorizationGuard
	log       zerolog.Logger
}

func NewFavoriteService(favRepo repository.FavoriteRepository, mediaRepo repository.MediaRepository, guard AuthorizationGuard, log zerolog.Logger) FavoriteService {
	return &favoriteService{
		favRepo:   favRepo,
		mediaRepo: mediaRepo,
		guard:     guard,
		log:       log,
	}
}

// AddFavorite is only open to the entry's creator.
// Checks run in order: entry exists, not yet a favorite, caller is creator.
func (s *favoriteService) AddFavorite(ctx context.Context, entryID int64, user *models.User) (*models.Favorite, error) {
	if user == nil {
		return nil, ErrForbidden
	}

	entry, err := s.mediaRepo.FindByID(ctx, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.favRepo.FindByUserAndEntry(ctx, user.ID, entryID); err == nil {
		return nil, ErrAlreadyFavorite
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if !s.guard.Authorize(user, entry.CreatorID) {
		s.log.Debug().Int64("entry_id", entryID).Int64("user_id", user.ID).Msg("favorite denied")
		return nil, ErrForbidden
	}

	fav := &models.Favorite{UserID: user.ID, EntryID: entryID}
	created, err := s.favRepo.Save(ctx, fav)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost a race against an identical request
		return nil, ErrAlreadyFavorite
	}
	return fav, nil
}

// RemoveFavorite reports false when there was nothing to remove.
func (s *favoriteService) RemoveFavorite(ctx context.Context, entryID int64, user *models.User) (bool, error) {
	if user == nil {
		return false, ErrForbidden
	}

	entry, err := s.mediaRepo.FindByID(ctx, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrEntryNotFound
	}
	if err != nil {
		return false, err
	}
	if !s.guard.Authorize(user, entry.CreatorID) {
		return false, ErrForbidden
	}

	return s.favRepo.DeleteByUserAndEntry(ctx, user.ID, entryID)
}

func (s *favoriteService) FavoritesForUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	return s.favRepo.FindByUser(ctx, userID)
}

func (s *favoriteService) FavoritesForEntry(ctx context.Context, entryID int64) ([]models.Favorite, error) {
	return s.favRepo.FindByEntry(ctx, entryID)
}
