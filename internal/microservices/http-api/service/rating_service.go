package service

import (
	"context"
	"errors"
	"fmt"

	"mrp/internal/metrics"
	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidStarValue = errors.New("star value must be between 1 and 5")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEntryNotFound    = errors.New("media entry not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrSelfLike         = errors.New("cannot like your own rating")
)

type RatingService interface {
	Rate(ctx context.Context, entryID, userID int64, stars int, comment string) (*models.Rating, error)
	UpdateRating(ctx context.Context, ratingID int64, stars *int, comment string, editor *models.User) (bool, error)
	DeleteRating(ctx context.Context, ratingID int64, deleter *models.User) (bool, error)
	ConfirmRating(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	LikeRating(ctx context.Context, ratingID int64, liker *models.User) (*models.Like, error)
	UnlikeRating(ctx context.Context, ratingID int64, liker *models.User) (bool, error)
	ToggleLike(ctx context.Context, ratingID int64, liker *models.User) (liked bool, err error)
	CalculateAverage(ctx context.Context, entryID int64) (float64, error)

	GetRating(ctx context.Context, ratingID int64) (*models.Rating, error)
	RatingsForEntry(ctx context.Context, entryID int64) ([]models.Rating, error)
	RatingsForUser(ctx context.Context, userID int64) ([]models.Rating, error)
	LikeCount(ctx context.Context, ratingID int64) (int64, error)
	UserAverageRating(ctx context.Context, userID int64) (float64, error)
}

type ratingService struct {
	tx         repository.Transactor
	ratingRepo repository.RatingRepository
	likeRepo   repository.LikeRepository
	mediaRepo  repository.MediaRepository
	log        zerolog.Logger
}

func NewRatingService(
	tx repository.Transactor,
	ratingRepo repository.RatingRepository,
	likeRepo repository.LikeRepository,
	mediaRepo repository.MediaRepository,
	log zerolog.Logger,
) RatingService {
	return &ratingService{
		tx:         tx,
		ratingRepo: ratingRepo,
		likeRepo:   likeRepo,
		mediaRepo:  mediaRepo,
		log:        log,
	}
}

// Rate creates the user's rating for the entry or overwrites the one they
// already have, then refreshes the entry average in the same transaction.
func (s *ratingService) Rate(ctx context.Context, entryID, userID int64, stars int, comment string) (*models.Rating, error) {
	if !models.ValidStars(stars) {
		return nil, ErrInvalidStarValue
	}

	var rating *models.Rating
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		// row lock serialises writers on the same entry until commit
		if _, err := s.mediaRepo.FindByIDForUpdate(ctx, entryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		r := &models.Rating{
			EntryID:   entryID,
			UserID:    userID,
			StarValue: stars,
			Comment:   comment,
		}
		if err := s.ratingRepo.Upsert(ctx, r); err != nil {
			return err
		}
		rating = r

		return s.refreshAverage(ctx, entryID)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRatingWrite("rate")
	s.log.Debug().Int64("entry_id", entryID).Int64("user_id", userID).Int("stars", stars).Msg("rating stored")
	return rating, nil
}

// UpdateRating always writes when editor owns the rating and reports true.
// A missing rating or a foreign editor yields false without error.
func (s *ratingService) UpdateRating(ctx context.Context, ratingID int64, stars *int, comment string, editor *models.User) (bool, error) {
	if stars == nil {
		return false, ErrInvalidArgument
	}
	if !models.ValidStars(*stars) {
		return false, fmt.Errorf("%w: %w", ErrInvalidArgument, ErrInvalidStarValue)
	}
	if editor == nil {
		return false, nil
	}

	updated := false
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		rating, err := s.ratingRepo.FindByID(ctx, ratingID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if rating.UserID != editor.ID {
			return nil
		}
		if _, err := s.mediaRepo.FindByIDForUpdate(ctx, rating.EntryID); err != nil {
			return err
		}

		rating.StarValue = *stars
		rating.Comment = comment
		if err := s.ratingRepo.Update(ctx, rating); err != nil {
			return err
		}
		if err := s.refreshAverage(ctx, rating.EntryID); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if updated {
		metrics.RecordRatingWrite("update")
	} else {
		s.log.Debug().Int64("rating_id", ratingID).Int64("user_id", editor.ID).Msg("rating update denied")
	}
	return updated, nil
}

// DeleteRating removes the rating with its likes and refreshes the entry average.
func (s *ratingService) DeleteRating(ctx context.Context, ratingID int64, deleter *models.User) (bool, error) {
	if deleter == nil {
		return false, nil
	}

	deleted := false
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		rating, err := s.ratingRepo.FindByID(ctx, ratingID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if rating.UserID != deleter.ID {
			return nil
		}
		if _, err := s.mediaRepo.FindByIDForUpdate(ctx, rating.EntryID); err != nil {
			return err
		}

		ok, err := s.ratingRepo.DeleteByID(ctx, ratingID)
		if err != nil || !ok {
			return err
		}
		if err := s.refreshAverage(ctx, rating.EntryID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		metrics.RecordRatingWrite("delete")
	}
	return deleted, nil
}

// ConfirmRating marks the rating confirmed. The caller must already have
// checked that the confirming user created the entry.
func (s *ratingService) ConfirmRating(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if rating == nil {
		return nil, ErrInvalidArgument
	}
	if err := s.ratingRepo.SetConfirmed(ctx, rating.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	confirmed, err := s.ratingRepo.FindByID(ctx, rating.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	metrics.RecordRatingWrite("confirm")
	return confirmed, nil
}

// LikeRating is idempotent: a repeated like returns the stored one.
func (s *ratingService) LikeRating(ctx context.Context, ratingID int64, liker *models.User) (*models.Like, error) {
	if liker == nil {
		return nil, ErrInvalidArgument
	}

	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	if rating.UserID == liker.ID {
		return nil, ErrSelfLike
	}

	existing, err := s.likeRepo.FindByRatingAndUser(ctx, ratingID, liker.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	like := &models.Like{RatingID: ratingID, UserID: liker.ID}
	if err := s.likeRepo.Save(ctx, like); err != nil {
		return nil, err
	}
	metrics.RecordLikeWrite("like")
	return like, nil
}

func (s *ratingService) UnlikeRating(ctx context.Context, ratingID int64, liker *models.User) (bool, error) {
	if liker == nil {
		return false, nil
	}
	if _, err := s.ratingRepo.FindByID(ctx, ratingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := s.likeRepo.DeleteByRatingAndUser(ctx, ratingID, liker.ID)
	if err != nil {
		return false, err
	}
	if removed {
		metrics.RecordLikeWrite("unlike")
	}
	return removed, nil
}

// ToggleLike likes the rating when the user has not yet, unlikes it otherwise.
func (s *ratingService) ToggleLike(ctx context.Context, ratingID int64, liker *models.User) (bool, error) {
	if liker == nil {
		return false, ErrInvalidArgument
	}
	_, err := s.likeRepo.FindByRatingAndUser(ctx, ratingID, liker.ID)
	switch {
	case err == nil:
		if _, err := s.UnlikeRating(ctx, ratingID, liker); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		if _, err := s.LikeRating(ctx, ratingID, liker); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *ratingService) CalculateAverage(ctx context.Context, entryID int64) (float64, error) {
	return s.ratingRepo.CalculateAverageRating(ctx, entryID)
}

func (s *ratingService) GetRating(ctx context.Context, ratingID int64) (*models.Rating, error) {
	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRatingNotFound
	}
	return rating, err
}

func (s *ratingService) RatingsForEntry(ctx context.Context, entryID int64) ([]models.Rating, error) {
	return s.ratingRepo.FindByEntry(ctx, entryID)
}

func (s *ratingService) RatingsForUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	return s.ratingRepo.FindByUser(ctx, userID)
}

func (s *ratingService) LikeCount(ctx context.Context, ratingID int64) (int64, error) {
	return s.likeRepo.CountByRating(ctx, ratingID)
}

// UserAverageRating is the mean of every star value the user has given.
func (s *ratingService) UserAverageRating(ctx context.Context, userID int64) (float64, error) {
	return s.ratingRepo.AverageByUser(ctx, userID)
}

// refreshAverage recomputes from scratch, never patches incrementally.
func (s *ratingService) refreshAverage(ctx context.Context, entryID int64) error {
	avg, err := s.ratingRepo.CalculateAverageRating(ctx, entryID)
	if err != nil {
		return err
	}
	return s.mediaRepo.UpdateAverageRating(ctx, entryID, avg)
}
