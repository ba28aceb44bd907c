// Package cache holds the key-value cache port used by the repositories
// and its memory and Redis backends.
package cache

import (
	"context"
	"time"
)

// Cache defines a minimal key-value cache contract.
// Implementations should degrade gracefully (returning an error without crashing callers)
// so that repository logic can fall back to the primary datastore.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL counted from this call.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}

const (
	// AllSuggestionsKey holds the list of every non-archived suggestion.
	AllSuggestionsKey = "suggestions:all"
	// AllStatusesKey holds the list of suggestion statuses.
	AllStatusesKey = "statuses:all"

	userSuggestionsPrefix = "suggestions:user:"
)

// UserSuggestionsKey returns the key for the suggestions authored by userID.
// The prefix keeps user ids out of the namespace of the fixed keys.
func UserSuggestionsKey(userID string) string {
	return userSuggestionsPrefix + userID
}
