package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"
	"mrp/internal/middleware/auth"

	"github.com/rs/zerolog"
)

var (
	ErrNameInUse    = errors.New("username already in use")
	ErrUserNotFound = errors.New("user not found")
)

// ProfileUpdate leaves nil fields untouched.
type ProfileUpdate struct {
	Email         *string
	FavoriteGenre *string
}

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetProfile(ctx context.Context, userID int64, caller *models.User) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, caller *models.User, upd ProfileUpdate) (*models.UserProfile, error)
}

type userService struct {
	tx          repository.Transactor
	userRepo    repository.UserRepository
	profileRepo repository.UserProfileRepository
	hasher      auth.PasswordHasher
	guard       AuthorizationGuard
	log         zerolog.Logger
}

func NewUserService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	profileRepo repository.UserProfileRepository,
	hasher auth.PasswordHasher,
	guard AuthorizationGuard,
	log zerolog.Logger,
) UserService {
	return &userService{
		tx:          tx,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		hasher:      hasher,
		guard:       guard,
		log:         log,
	}
}

// Register creates the user and an empty profile together.
func (s *userService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}

	// Check if user exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
	}
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.profileRepo.Create(ctx, &models.UserProfile{UserID: user.ID})
	})
	if err != nil {
		// two registrations racing for the same name
		if repository.IsUniqueViolation(err) {
			return nil, ErrNameInUse
		}
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// GetProfile is only visible to its owner.
func (s *userService) GetProfile(ctx context.Context, userID int64, caller *models.User) (*models.UserProfile, error) {
	if !s.guard.Authorize(caller, userID) {
		return nil, ErrForbidden
	}
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return profile, err
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, caller *models.User, upd ProfileUpdate) (*models.UserProfile, error) {
	if !s.guard.Authorize(caller, userID) {
		return nil, ErrForbidden
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		profile.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.FavoriteGenre != nil {
		profile.FavoriteGenre = strings.TrimSpace(*upd.FavoriteGenre)
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
