package handler_test

import (
	"context"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/service"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64, caller *models.User) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, caller *models.User, upd service.ProfileUpdate) (*models.UserProfile, error) {
	args := m.Called(ctx, userID, caller, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type MockSessionService struct{ mock.Mock }

func (m *MockSessionService) IssueToken(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockSessionService) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockMediaService struct{ mock.Mock }

func (m *MockMediaService) Create(ctx context.Context, creator *models.User, in service.MediaInput) (*models.MediaEntry, error) {
	args := m.Called(ctx, creator, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaEntry), args.Error(1)
}

func (m *MockMediaService) Get(ctx context.Context, id int64) (*models.MediaEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaEntry), args.Error(1)
}

func (m *MockMediaService) Update(ctx context.Context, id int64, editor *models.User, in service.MediaInput) (*models.MediaEntry, error) {
	args := m.Called(ctx, id, editor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaEntry), args.Error(1)
}

func (m *MockMediaService) Delete(ctx context.Context, id int64, deleter *models.User) error {
	return m.Called(ctx, id, deleter).Error(0)
}

func (m *MockMediaService) List(ctx context.Context, q service.MediaQuery) ([]models.MediaEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaEntry), args.Error(1)
}

func (m *MockMediaService) ListByCreator(ctx context.Context, creatorID int64) ([]models.MediaEntry, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaEntry), args.Error(1)
}

type MockRatingService struct{ mock.Mock }

func (m *MockRatingService) Rate(ctx context.Context, entryID, userID int64, stars int, comment string) (*models.Rating, error) {
	args := m.Called(ctx, entryID, userID, stars, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) UpdateRating(ctx context.Context, ratingID int64, stars *int, comment string, editor *models.User) (bool, error) {
	args := m.Called(ctx, ratingID, stars, comment, editor)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, ratingID int64, deleter *models.User) (bool, error) {
	args := m.Called(ctx, ratingID, deleter)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingService) ConfirmRating(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) LikeRating(ctx context.Context, ratingID int64, liker *models.User) (*models.Like, error) {
	args := m.Called(ctx, ratingID, liker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Like), args.Error(1)
}

func (m *MockRatingService) UnlikeRating(ctx context.Context, ratingID int64, liker *models.User) (bool, error) {
	args := m.Called(ctx, ratingID, liker)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingService) ToggleLike(ctx context.Context, ratingID int64, liker *models.User) (bool, error) {
	args := m.Called(ctx, ratingID, liker)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingService) CalculateAverage(ctx context.Context, entryID int64) (float64, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingService) GetRating(ctx context.Context, ratingID int64) (*models.Rating, error) {
	args := m.Called(ctx, ratingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) RatingsForEntry(ctx context.Context, entryID int64) ([]models.Rating, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingService) RatingsForUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingService) LikeCount(ctx context.Context, ratingID int64) (int64, error) {
	args := m.Called(ctx, ratingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRatingService) UserAverageRating(ctx context.Context, userID int64) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

type MockFavoriteService struct{ mock.Mock }

func (m *MockFavoriteService) AddFavorite(ctx context.Context, entryID int64, user *models.User) (*models.Favorite, error) {
	args := m.Called(ctx, entryID, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, entryID int64, user *models.User) (bool, error) {
	args := m.Called(ctx, entryID, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteService) FavoritesForUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) FavoritesForEntry(ctx context.Context, entryID int64) ([]models.Favorite, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}
