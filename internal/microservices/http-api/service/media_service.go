package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"

	"github.com/rs/zerolog"
)

var ErrInvalidFilter = errors.New("invalid filter")

// MediaInput carries the writable fields of a media entry.
type MediaInput struct {
	Title          string
	Description    string
	MediaType      string
	ReleaseYear    int
	AgeRestriction int
	Genres         []string
}

// MediaQuery is the raw, unparsed form of a media listing request.
type MediaQuery struct {
	Title          string
	Genre          string
	MediaType      string
	ReleaseYear    string
	AgeRestriction string
	Rating         string
	SortBy         string
}

type MediaService interface {
	Create(ctx context.Context, creator *models.User, in MediaInput) (*models.MediaEntry, error)
	Get(ctx context.Context, id int64) (*models.MediaEntry, error)
	Update(ctx context.Context, id int64, editor *models.User, in MediaInput) (*models.MediaEntry, error)
	Delete(ctx context.Context, id int64, deleter *models.User) error
	List(ctx context.Context, q MediaQuery) ([]models.MediaEntry, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]models.MediaEntry, error)
}

type mediaService struct {
	tx        repository.Transactor
	mediaRepo repository.MediaRepository
	guard     AuthorizationGuard
	log       zerolog.Logger
}

func NewMediaService(tx repository.Transactor, mediaRepo repository.MediaRepository, guard AuthorizationGuard, log zerolog.Logger) MediaService {
	return &mediaService{
		tx:        tx,
		mediaRepo: mediaRepo,
		guard:     guard,
		log:       log,
	}
}

func (in MediaInput) validate() (models.MediaType, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	mt, ok := models.ParseMediaType(in.MediaType)
	if !ok {
		return "", fmt.Errorf("%w: media type must be MOVIE, SERIES or GAME", ErrInvalidArgument)
	}
	if in.ReleaseYear < 0 {
		return "", fmt.Errorf("%w: release year must not be negative", ErrInvalidArgument)
	}
	if in.AgeRestriction < 0 {
		return "", fmt.Errorf("%w: age restriction must not be negative", ErrInvalidArgument)
	}
	return mt, nil
}

func (s *mediaService) Create(ctx context.Context, creator *models.User, in MediaInput) (*models.MediaEntry, error) {
	if creator == nil {
		return nil, ErrForbidden
	}
	mt, err := in.validate()
	if err != nil {
		return nil, err
	}

	entry := &models.MediaEntry{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		MediaType:      mt,
		ReleaseYear:    in.ReleaseYear,
		AgeRestriction: in.AgeRestriction,
		CreatorID:      creator.ID,
	}
	entry.SetGenres(in.Genres)

	if err := s.mediaRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.log.Info().Int64("entry_id", entry.ID).Int64("creator_id", creator.ID).Msg("media entry created")
	return entry, nil
}

func (s *mediaService) Get(ctx context.Context, id int64) (*models.MediaEntry, error) {
	entry, err := s.mediaRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	return entry, err
}

// Update is limited to the entry's creator.
func (s *mediaService) Update(ctx context.Context, id int64, editor *models.User, in MediaInput) (*models.MediaEntry, error) {
	mt, err := in.validate()
	if err != nil {
		return nil, err
	}

	var updated *models.MediaEntry
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		entry, err := s.mediaRepo.FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		if !s.guard.Authorize(editor, entry.CreatorID) {
			return ErrForbidden
		}

		entry.Title = strings.TrimSpace(in.Title)
		entry.Description = in.Description
		entry.MediaType = mt
		entry.ReleaseYear = in.ReleaseYear
		entry.AgeRestriction = in.AgeRestriction
		entry.SetGenres(in.Genres)
		if err := s.mediaRepo.Update(ctx, entry); err != nil {
			return err
		}

		updated, err = s.mediaRepo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete is limited to the entry's creator and takes ratings, likes and
// favorites of the entry with it.
func (s *mediaService) Delete(ctx context.Context, id int64, deleter *models.User) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		entry, err := s.mediaRepo.FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return err
		}
		if !s.guard.Authorize(deleter, entry.CreatorID) {
			return ErrForbidden
		}
		return s.mediaRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info().Int64("entry_id", id).Msg("media entry deleted")
	return nil
}

func (s *mediaService) List(ctx context.Context, q MediaQuery) ([]models.MediaEntry, error) {
	filter, err := ParseMediaQuery(q)
	if err != nil {
		return nil, err
	}
	return s.mediaRepo.FindAll(ctx, filter)
}

func (s *mediaService) ListByCreator(ctx context.Context, creatorID int64) ([]models.MediaEntry, error) {
	return s.mediaRepo.FindByCreator(ctx, creatorID)
}

// ParseMediaQuery validates raw listing parameters. Empty values are ignored.
func ParseMediaQuery(q MediaQuery) (repository.MediaFilter, error) {
	f := repository.MediaFilter{
		Title: strings.TrimSpace(q.Title),
		Genre: strings.TrimSpace(q.Genre),
	}

	if v := strings.TrimSpace(q.MediaType); v != "" {
		mt, ok := models.ParseMediaType(v)
		if !ok {
			return f, fmt.Errorf("%w: unknown mediaType %q", ErrInvalidFilter, v)
		}
		f.MediaType = mt
	}

	if v := strings.TrimSpace(q.ReleaseYear); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 0 {
			return f, fmt.Errorf("%w: releaseYear must be a non-negative integer", ErrInvalidFilter)
		}
		f.ReleaseYear = &year
	}

	if v := strings.TrimSpace(q.AgeRestriction); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil || age < 0 {
			return f, fmt.Errorf("%w: ageRestriction must be a non-negative integer", ErrInvalidFilter)
		}
		f.AgeRestriction = &age
	}

	if v := strings.TrimSpace(q.Rating); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil || minRating < 0 || minRating > models.MaxStars {
			return f, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidFilter)
		}
		f.MinRating = &minRating
	}

	switch v := strings.TrimSpace(q.SortBy); v {
	case "":
	case repository.SortByTitle, repository.SortByScore, repository.SortByRating, repository.SortByReleaseYear:
		f.SortBy = v
	default:
		return f, fmt.Errorf("%w: unknown sortBy %q", ErrInvalidFilter, v)
	}

	return f, nil
}
