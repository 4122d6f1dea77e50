package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/repository"
	"mrp/internal/middleware/auth"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSessionFixture(t *testing.T) (*MockUserRepository, *MockTokenRepository, *fakeClock, SessionService, *models.User) {
	t.Helper()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, salt, err := hasher.Hash("pw123")
	require.NoError(t, err)

	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	clock := &fakeClock{t: testNow}
	svc := NewSessionService(users, tokens, hasher, 24*time.Hour, zerolog.Nop(), WithClock(clock.Now))
	alice := &models.User{ID: 1, Username: "alice", PasswordHash: hash, Salt: salt}
	return users, tokens, clock, svc, alice
}

func TestLogin_Success(t *testing.T) {
	users, tokens, _, svc, alice := newSessionFixture(t)
	ctx := context.Background()

	users.On("FindByUsername", ctx, "alice").Return(alice, nil)
	tokens.On("Save", ctx, mock.MatchedBy(func(tok *models.Token) bool {
		return tok.UserID == 1 &&
			tok.CreatedAt.Equal(testNow) &&
			tok.ExpiresAt.Equal(testNow.Add(24*time.Hour))
	})).Return(nil)

	token, err := svc.Login(ctx, "alice", "pw123")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), token)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestLogin_UnknownUser(t *testing.T) {
	users, tokens, _, svc, _ := newSessionFixture(t)
	ctx := context.Background()

	users.On("FindByUsername", ctx, "mallory").Return(nil, repository.ErrNotFound)

	token, err := svc.Login(ctx, "mallory", "pw123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	tokens.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	users, tokens, _, svc, alice := newSessionFixture(t)
	ctx := context.Background()

	users.On("FindByUsername", ctx, "alice").Return(alice, nil)

	token, err := svc.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	tokens.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin_StorageFaultIsNotCredentialError(t *testing.T) {
	users, _, _, svc, _ := newSessionFixture(t)
	ctx := context.Background()
	boom := errors.New("connection refused")

	users.On("FindByUsername", ctx, "alice").Return(nil, boom)

	_, err := svc.Login(ctx, "alice", "pw123")

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	users, tokens, clock, svc, alice := newSessionFixture(t)
	ctx := context.Background()

	stored := &models.Token{Token: "tok", UserID: 1, CreatedAt: testNow, ExpiresAt: testNow.Add(24 * time.Hour)}
	tokens.On("FindByToken", ctx, "tok").Return(stored, nil)
	users.On("FindByID", ctx, int64(1)).Return(alice, nil)

	clock.Advance(24*time.Hour - time.Nanosecond)
	user, err := svc.Validate(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// exactly at expiry the token is gone
	tokens.On("DeleteByToken", ctx, "tok").Return(nil).Once()
	clock.Advance(time.Nanosecond)
	user, err = svc.Validate(ctx, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, user)
	tokens.AssertCalled(t, "DeleteByToken", ctx, "tok")
}

func TestValidate_AfterExpiryDeletes(t *testing.T) {
	_, tokens, clock, svc, _ := newSessionFixture(t)
	ctx := context.Background()

	stored := &models.Token{Token: "tok", UserID: 1, CreatedAt: testNow, ExpiresAt: testNow.Add(24 * time.Hour)}
	tokens.On("FindByToken", ctx, "tok").Return(stored, nil)
	tokens.On("DeleteByToken", ctx, "tok").Return(nil)

	clock.Advance(48 * time.Hour)
	_, err := svc.Validate(ctx, "tok")

	assert.ErrorIs(t, err, ErrInvalidToken)
	tokens.AssertExpectations(t)
}

func TestValidate_UnknownAndEmpty(t *testing.T) {
	_, tokens, _, svc, _ := newSessionFixture(t)
	ctx := context.Background()

	tokens.On("FindByToken", ctx, "nope").Return(nil, repository.ErrNotFound)

	_, err := svc.Validate(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	tokens.AssertNumberOfCalls(t, "FindByToken", 1)
}

func TestValidate_OrphanToken(t *testing.T) {
	users, tokens, _, svc, _ := newSessionFixture(t)
	ctx := context.Background()

	stored := &models.Token{Token: "tok", UserID: 9, ExpiresAt: testNow.Add(time.Hour)}
	tokens.On("FindByToken", ctx, "tok").Return(stored, nil)
	users.On("FindByID", ctx, int64(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.Validate(ctx, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_Idempotent(t *testing.T) {
	_, tokens, _, svc, alice := newSessionFixture(t)
	ctx := context.Background()

	tokens.On("DeleteByUserID", ctx, int64(1)).Return(nil).Twice()

	assert.NoError(t, svc.Logout(ctx, alice))
	assert.NoError(t, svc.Logout(ctx, alice))
	assert.NoError(t, svc.Logout(ctx, nil))
	tokens.AssertExpectations(t)
}

func TestIssueToken_Formats(t *testing.T) {
	opaque, err := OpaqueTokens("alice")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}$`, opaque)
	assert.NotContains(t, opaque, "alice")

	again, err := OpaqueTokens("alice")
	require.NoError(t, err)
	assert.NotEqual(t, opaque, again)

	legacy, err := LegacyTokens("alice")
	require.NoError(t, err)
	assert.Regexp(t, `^alice-[0-9a-f]{8}$`, legacy)
}

func TestIssueToken_UsesConfiguredGenerator(t *testing.T) {
	svc := NewSessionService(nil, nil, nil, time.Hour, zerolog.Nop(), WithTokenGenerator(LegacyTokens))

	token, err := svc.IssueToken("bob")
	require.NoError(t, err)
	assert.Regexp(t, `^bob-[0-9a-f]{8}$`, token)
}

func TestCleanupExpired(t *testing.T) {
	_, tokens, _, svc, _ := newSessionFixture(t)
	ctx := context.Background()

	tokens.On("DeleteExpired", ctx, testNow).Return(int64(3), nil)

	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRunTokenSweeper_StopsOnCancel(t *testing.T) {
	_, tokens, _, svc, _ := newSessionFixture(t)
	ticked := make(chan struct{}, 1)
	tokens.On("DeleteExpired", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		}).
		Return(int64(0), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunTokenSweeper(ctx, svc, time.Millisecond, zerolog.Nop())
		close(done)
	}()

	select {
	case <-ticked:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestRunTokenSweeper_DisabledReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		RunTokenSweeper(context.Background(), nil, 0, zerolog.Nop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper should return")
	}
}
