package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_CreatorGated(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	alice := p.register(t, "alice")
	bob := p.register(t, "bob")
	e := p.entry(t, alice, "Heat")

	_, err := p.favorites.AddFavorite(ctx, 999, alice)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// only the entry creator may favorite it
	_, err = p.favorites.AddFavorite(ctx, e.ID, bob)
	assert.ErrorIs(t, err, ErrForbidden)

	fav, err := p.favorites.AddFavorite(ctx, e.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, e.ID, fav.EntryID)
	assert.Equal(t, alice.ID, fav.UserID)

	_, err = p.favorites.AddFavorite(ctx, e.ID, alice)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)

	mine, err := p.favorites.FavoritesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Entry)
	assert.Equal(t, "Heat", mine[0].Entry.Title)

	onEntry, err := p.favorites.FavoritesForEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, onEntry, 1)

	_, err = p.favorites.RemoveFavorite(ctx, e.ID, bob)
	assert.ErrorIs(t, err, ErrForbidden)

	ok, err := p.favorites.RemoveFavorite(ctx, e.ID, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.favorites.RemoveFavorite(ctx, e.ID, alice)
	require.NoError(t, err)
	assert.False(t, ok)
}
