package service

import (
	"context"
	"testing"

	"mrp/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationGuard(t *testing.T) {
	g := NewAuthorizationGuard()

	assert.True(t, g.Authorize(&models.User{ID: 3}, 3))
	assert.False(t, g.Authorize(&models.User{ID: 3}, 4))
	assert.False(t, g.Authorize(nil, 0))
}

func TestUserService_RegisterValidates(t *testing.T) {
	p := newPlatform(t)

	_, err := p.users.Register(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = p.users.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUserService_RegisterStoresHashNotPassword(t *testing.T) {
	p := newPlatform(t)
	alice := p.register(t, "alice")

	assert.NotEmpty(t, alice.Salt)
	assert.NotEqual(t, "pw123", alice.PasswordHash)

	got, err := p.users.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = p.users.GetUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Profile(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	alice := p.register(t, "alice")
	bob := p.register(t, "bob")

	profile, err := p.users.GetProfile(ctx, alice.ID, alice)
	require.NoError(t, err)
	assert.Empty(t, profile.Email)

	_, err = p.users.GetProfile(ctx, alice.ID, bob)
	assert.ErrorIs(t, err, ErrForbidden)

	email := "  alice@example.com "
	updated, err := p.users.UpdateProfile(ctx, alice.ID, alice, ProfileUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Empty(t, updated.FavoriteGenre)

	genre := "noir"
	updated, err = p.users.UpdateProfile(ctx, alice.ID, alice, ProfileUpdate{FavoriteGenre: &genre})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "noir", updated.FavoriteGenre)

	_, err = p.users.UpdateProfile(ctx, alice.ID, bob, ProfileUpdate{FavoriteGenre: &genre})
	assert.ErrorIs(t, err, ErrForbidden)
}
