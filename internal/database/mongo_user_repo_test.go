package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion-tracker/internal/database"
	"suggestion-tracker/internal/database/memstore"
	"suggestion-tracker/internal/database/models"
)

func TestUserRepository(t *testing.T) {
	store := memstore.New()
	repo := database.NewMongoUserRepository(store, "")
	ctx := context.Background()

	alice := &models.User{ObjectIdentifier: "sub-alice", DisplayName: "Alice"}
	require.NoError(t, repo.CreateUser(ctx, alice))
	assert.NotEmpty(t, alice.ID)
	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "bob", ObjectIdentifier: "sub-bob", DisplayName: "Bob"}))

	got, err := repo.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
	assert.NotNil(t, got.AuthoredSuggestions)
	assert.NotNil(t, got.VotedOnSuggestions)

	byAuth, err := repo.GetUserFromAuthentication(ctx, "sub-bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", byAuth.ID)

	all, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got.DisplayName = "Alice B."
	require.NoError(t, repo.UpdateUser(ctx, got))
	got, err = repo.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.DisplayName)
	assert.Equal(t, 2, store.Count("users"))
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := database.NewMongoUserRepository(memstore.New(), "people")
	ctx := context.Background()

	_, err := repo.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, database.ErrUserNotFound)

	_, err = repo.GetUserFromAuthentication(ctx, "sub-ghost")
	assert.ErrorIs(t, err, database.ErrUserNotFound)

	err = repo.UpdateUser(ctx, &models.User{ID: "ghost"})
	assert.ErrorIs(t, err, database.ErrUserNotFound)
}

func TestUserRepository_DuplicateID(t *testing.T) {
	repo := database.NewMongoUserRepository(memstore.New(), "")
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "u1"}))
	err := repo.CreateUser(ctx, &models.User{ID: "u1"})
	assert.ErrorIs(t, err, memstore.ErrDuplicateKey)
}
