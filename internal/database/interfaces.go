package database

import (
	"context"

	"suggestion-tracker/internal/database/models"
)

// SuggestionRepository defines the suggestion read and write operations.
type SuggestionRepository interface {
	GetAllSuggestions(ctx context.Context) ([]models.Suggestion, error)
	GetUsersSuggestions(ctx context.Context, userID string) ([]models.Suggestion, error)
	GetAllApprovedSuggestions(ctx context.Context) ([]models.Suggestion, error)
	GetAllSuggestionsWaitingForApproval(ctx context.Context) ([]models.Suggestion, error)
	// GetSuggestion always reads the store. It returns ErrSuggestionNotFound if no suggestion matches the ID.
	GetSuggestion(ctx context.Context, id string) (*models.Suggestion, error)
	UpdateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	UpvoteSuggestion(ctx context.Context, suggestionID, userID string) (models.VoteState, error)
}

// UserRepository is the part of the user store the suggestion repository depends on.
// Implementations must honour a session-bound ctx so their writes join the caller's transaction.
type UserRepository interface {
	// GetUser returns ErrUserNotFound if no user matches the ID.
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// StatusRepository defines operations on suggestion statuses.
type StatusRepository interface {
	GetAllStatuses(ctx context.Context) ([]models.Status, error)
	CreateStatus(ctx context.Context, status *models.Status) error
}
