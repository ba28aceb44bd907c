package database

import (
	"errors"

	"suggestion-tracker/internal/database/models"
)

// ErrSuggestionNotFound is returned when a suggestion is not found.
var ErrSuggestionNotFound = errors.New("suggestion not found")

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrTransactionAborted wraps any failure inside a multi-document write.
// The underlying cause stays reachable through errors.Is / errors.As.
var ErrTransactionAborted = errors.New("transaction aborted")

// ErrInvalidSuggestion is returned when a write would break a suggestion invariant.
var ErrInvalidSuggestion = models.ErrInvalidSuggestion
