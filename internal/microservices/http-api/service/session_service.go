package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"mrp/internal/metrics"
	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"
	"mrp/internal/middleware/auth"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenGenerator mints a new token string for username.
type TokenGenerator func(username string) (string, error)

// OpaqueTokens returns 256 random bits, hex encoded.
func OpaqueTokens(string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LegacyTokens produces "<username>-<8 hex chars>". Guessable, kept for old clients.
func LegacyTokens(username string) (string, error) {
	id := uuid.New()
	return username + "-" + hex.EncodeToString(id[:4]), nil
}

type SessionService interface {
	IssueToken(username string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, user *models.User) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type SessionOption func(*sessionService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) { s.now = now }
}

func WithTokenGenerator(gen TokenGenerator) SessionOption {
	return func(s *sessionService) { s.generate = gen }
}

type sessionService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    auth.PasswordHasher
	ttl       time.Duration
	log       zerolog.Logger

	now      func() time.Time
	generate TokenGenerator
}

func NewSessionService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	hasher auth.PasswordHasher,
	ttl time.Duration,
	log zerolog.Logger,
	opts ...SessionOption,
) SessionService {
	s := &sessionService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
		generate:  OpaqueTokens,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) IssueToken(username string) (string, error) {
	return s.generate(username)
}

// Login never tells the caller whether the user or the password was wrong.
func (s *sessionService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// same work as a real check so both failures take similar time
		s.hasher.VerifyDummy(password)
		metrics.RecordLogin(false)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash, user.Salt) {
		metrics.RecordLogin(false)
		s.log.Debug().Str("username", username).Msg("login rejected")
		return "", ErrInvalidCredentials
	}

	value, err := s.IssueToken(user.Username)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := &models.Token{
		Token:     value,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	// replaces any earlier token for this user
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return "", err
	}

	metrics.RecordLogin(true)
	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return value, nil
}

// Validate resolves token to its user. Expired tokens are deleted on the spot.
func (s *sessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	t, err := s.tokenRepo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if !t.ValidAt(s.now()) {
		if err := s.tokenRepo.DeleteByToken(ctx, token); err != nil {
			return nil, err
		}
		s.log.Debug().Int64("user_id", t.UserID).Msg("expired token removed")
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, t.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout is a no-op for a user without a session.
func (s *sessionService) Logout(ctx context.Context, user *models.User) error {
	if user == nil {
		return nil
	}
	if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", user.ID).Msg("user logged out")
	return nil
}

func (s *sessionService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordTokensSwept(n)
	return n, nil
}

// RunTokenSweeper calls CleanupExpired every interval until ctx is done.
func RunTokenSweeper(ctx context.Context, sessions SessionService, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanupExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("token sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("removed", n).Msg("expired tokens swept")
			}
		}
	}
}
