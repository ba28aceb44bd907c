package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"suggestion-tracker/internal/database"
	"suggestion-tracker/internal/database/memstore"
)

type doc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

func TestWithTransaction_Commits(t *testing.T) {
	store := memstore.New()

	err := database.WithTransaction(context.Background(), store, func(txCtx context.Context) error {
		if err := store.Collection("a").InsertOne(txCtx, doc{ID: "1"}); err != nil {
			return err
		}
		return store.Collection("b").InsertOne(txCtx, doc{ID: "2"})
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count("a"))
	assert.Equal(t, 1, store.Count("b"))
	assert.Equal(t, 1, store.Calls(memstore.OpCommit, ""))
	assert.Equal(t, 0, store.Calls(memstore.OpAbort, ""))
}

func TestWithTransaction_AbortsOnError(t *testing.T) {
	store := memstore.New()
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), store, func(txCtx context.Context) error {
		require.NoError(t, store.Collection("a").InsertOne(txCtx, doc{ID: "1"}))
		return boom
	})
	assert.ErrorIs(t, err, database.ErrTransactionAborted)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 0, store.Count("a"))
	assert.Equal(t, 0, store.Calls(memstore.OpCommit, ""))
	assert.Equal(t, 1, store.Calls(memstore.OpAbort, ""))
}

func TestWithTransaction_AbortsOnPanic(t *testing.T) {
	store := memstore.New()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = database.WithTransaction(context.Background(), store, func(txCtx context.Context) error {
			require.NoError(t, store.Collection("a").InsertOne(txCtx, doc{ID: "1"}))
			panic("kaboom")
		})
	})

	assert.Equal(t, 0, store.Count("a"))
	assert.Equal(t, 1, store.Calls(memstore.OpAbort, ""))
}

func TestWithTransaction_CommitFailure(t *testing.T) {
	store := memstore.New()
	store.FailNext(memstore.OpCommit, "", memstore.ErrWriteConflict)

	err := database.WithTransaction(context.Background(), store, func(txCtx context.Context) error {
		return store.Collection("a").InsertOne(txCtx, doc{ID: "1"})
	})
	assert.ErrorIs(t, err, database.ErrTransactionAborted)
	assert.ErrorIs(t, err, memstore.ErrWriteConflict)
	assert.Equal(t, 0, store.Count("a"))
}

func TestWithTransaction_ConcurrentWritersConflict(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Collection("a").InsertOne(ctx, doc{ID: "1", Name: "initial"}))

	err := database.WithTransaction(ctx, store, func(txCtx context.Context) error {
		if _, err := store.Collection("a").ReplaceOne(txCtx, bson.M{"_id": "1"}, doc{ID: "1", Name: "inner"}); err != nil {
			return err
		}
		// Another writer commits the same document first.
		return database.WithTransaction(ctx, store, func(otherCtx context.Context) error {
			_, err := store.Collection("a").ReplaceOne(otherCtx, bson.M{"_id": "1"}, doc{ID: "1", Name: "other"})
			return err
		})
	})
	assert.ErrorIs(t, err, memstore.ErrWriteConflict)

	var got doc
	require.NoError(t, store.Collection("a").FindOne(ctx, bson.M{"_id": "1"}, &got))
	assert.Equal(t, "other", got.Name)
}

func TestWithTransaction_StartSessionFailure(t *testing.T) {
	store := memstore.New()
	down := errors.New("no primary")
	store.FailNext(memstore.OpStartSession, "", down)
	called := false

	err := database.WithTransaction(context.Background(), store, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, database.ErrTransactionAborted)
	assert.ErrorIs(t, err, down)
	assert.False(t, called)
}

func TestWithTransaction_CancelledContextStillAborts(t *testing.T) {
	store := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())

	err := database.WithTransaction(ctx, store, func(txCtx context.Context) error {
		require.NoError(t, store.Collection("a").InsertOne(txCtx, doc{ID: "1"}))
		cancel()
		return txCtx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.Calls(memstore.OpAbort, ""))
	assert.Equal(t, 0, store.Count("a"))
}
