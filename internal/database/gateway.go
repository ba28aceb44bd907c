package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Gateway is the document store as seen by the repositories.
type Gateway interface {
	// Collection returns a handle to the named collection.
	Collection(name string) Collection
	// StartSession opens a causally consistent session. The caller must end it.
	StartSession(ctx context.Context) (Session, error)
}

// Collection is the filtered find/insert/replace surface of one collection.
// Operations join a transaction when ctx was produced by Session.Bind.
type Collection interface {
	// Find decodes every document matching filter into results, a pointer to a slice.
	Find(ctx context.Context, filter bson.M, results any) error
	// FindOne decodes the first match into result, or returns mongo.ErrNoDocuments.
	FindOne(ctx context.Context, filter bson.M, result any) error
	InsertOne(ctx context.Context, doc any) error
	// ReplaceOne replaces the first match and reports how many documents matched.
	ReplaceOne(ctx context.Context, filter bson.M, doc any) (int64, error)
}

// Session carries at most one transaction at a time.
type Session interface {
	StartTransaction() error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
	EndSession(ctx context.Context)
	// Bind returns a context that routes collection operations through the session.
	Bind(ctx context.Context) context.Context
}
