package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"suggestion-tracker/internal/cache"
	"suggestion-tracker/internal/database/models"
	"suggestion-tracker/internal/logger"
	"suggestion-tracker/internal/metrics"
)

const (
	suggestionCollectionName = "suggestions"

	// DefaultSuggestionCacheTTL is how long list queries are served from cache.
	DefaultSuggestionCacheTTL = time.Minute

	cacheNameAll  = "suggestions_all"
	cacheNameUser = "suggestions_user"
)

// MongoSuggestionRepository implements SuggestionRepository on a Gateway.
// List reads are cached; single reads and writes go to the store.
type MongoSuggestionRepository struct {
	gateway        Gateway
	collectionName string
	users          UserRepository
	lists          listCache
	metrics        *metrics.Recorder
	now            func() time.Time
}

// SuggestionOption configures a MongoSuggestionRepository.
type SuggestionOption func(*MongoSuggestionRepository)

// WithSuggestionCollection overrides the collection name.
func WithSuggestionCollection(name string) SuggestionOption {
	return func(r *MongoSuggestionRepository) { r.collectionName = name }
}

// WithSuggestionCacheTTL overrides the list cache TTL.
func WithSuggestionCacheTTL(ttl time.Duration) SuggestionOption {
	return func(r *MongoSuggestionRepository) { r.lists.ttl = ttl }
}

// WithSuggestionMetrics reports cache and transaction counters to m.
func WithSuggestionMetrics(m *metrics.Recorder) SuggestionOption {
	return func(r *MongoSuggestionRepository) {
		r.metrics = m
		r.lists.metrics = m
	}
}

// WithSuggestionClock sets the clock used for DateCreated.
func WithSuggestionClock(now func() time.Time) SuggestionOption {
	return func(r *MongoSuggestionRepository) { r.now = now }
}

// NewMongoSuggestionRepository creates a new suggestion repository.
// c may be nil, in which case every list read hits the store.
func NewMongoSuggestionRepository(gw Gateway, users UserRepository, c cache.Cache, opts ...SuggestionOption) *MongoSuggestionRepository {
	r := &MongoSuggestionRepository{
		gateway:        gw,
		collectionName: suggestionCollectionName,
		users:          users,
		lists: listCache{
			cache: c,
			ttl:   DefaultSuggestionCacheTTL,
			log:   logger.WithComponent("suggestion_repository"),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ SuggestionRepository = (*MongoSuggestionRepository)(nil)

func (r *MongoSuggestionRepository) collection() Collection {
	return r.gateway.Collection(r.collectionName)
}

func (r *MongoSuggestionRepository) log() *logrus.Entry {
	return r.lists.log
}

// GetAllSuggestions returns every non-archived suggestion.
func (r *MongoSuggestionRepository) GetAllSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	return loadList(ctx, r.lists, cacheNameAll, cache.AllSuggestionsKey, func(ctx context.Context) ([]models.Suggestion, error) {
		return r.find(ctx, bson.M{"archive": false})
	})
}

// GetUsersSuggestions returns every suggestion authored by userID, archived ones included.
func (r *MongoSuggestionRepository) GetUsersSuggestions(ctx context.Context, userID string) ([]models.Suggestion, error) {
	return loadList(ctx, r.lists, cacheNameUser, cache.UserSuggestionsKey(userID), func(ctx context.Context) ([]models.Suggestion, error) {
		return r.find(ctx, bson.M{"author.id": userID})
	})
}

// GetAllApprovedSuggestions filters the cached list to suggestions approved for release.
func (r *MongoSuggestionRepository) GetAllApprovedSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	return r.filterAll(ctx, func(s *models.Suggestion) bool {
		return s.ApprovedForRelease
	})
}

// GetAllSuggestionsWaitingForApproval filters the cached list to suggestions neither approved nor rejected.
func (r *MongoSuggestionRepository) GetAllSuggestionsWaitingForApproval(ctx context.Context) ([]models.Suggestion, error) {
	return r.filterAll(ctx, func(s *models.Suggestion) bool {
		return !s.ApprovedForRelease && !s.Rejected
	})
}

func (r *MongoSuggestionRepository) filterAll(ctx context.Context, keep func(*models.Suggestion) bool) ([]models.Suggestion, error) {
	all, err := r.GetAllSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Suggestion, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// GetSuggestion retrieves a single suggestion by ID, bypassing the cache.
// It returns ErrSuggestionNotFound if no suggestion matches the ID.
func (r *MongoSuggestionRepository) GetSuggestion(ctx context.Context, id string) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	err := r.collection().FindOne(ctx, bson.M{"_id": id}, &suggestion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrSuggestionNotFound, id)
		}
		return nil, fmt.Errorf("failed to find suggestion by ID %s: %w", id, err)
	}
	return &suggestion, nil
}

// UpdateSuggestion replaces the stored suggestion and drops the all-suggestions list.
// Per-user lists are left to expire.
func (r *MongoSuggestionRepository) UpdateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if err := suggestion.Validate(); err != nil {
		return err
	}
	matched, err := r.collection().ReplaceOne(ctx, bson.M{"_id": suggestion.ID}, suggestion)
	if err != nil {
		return fmt.Errorf("failed to update suggestion %s: %w", suggestion.ID, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: %s", ErrSuggestionNotFound, suggestion.ID)
	}
	cacheDelete(ctx, r.lists, cache.AllSuggestionsKey)
	return nil
}

// CreateSuggestion inserts the suggestion and links it into its author's
// authored list in one transaction. ID and DateCreated are assigned when empty.
// Cached lists are not invalidated; they pick the suggestion up on expiry.
func (r *MongoSuggestionRepository) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if err := suggestion.Validate(); err != nil {
		return err
	}
	if suggestion.ID == "" {
		suggestion.ID = primitive.NewObjectID().Hex()
	}
	if suggestion.DateCreated.IsZero() {
		suggestion.DateCreated = r.now().UTC()
	}
	if suggestion.UserVotes == nil {
		suggestion.UserVotes = []string{}
	}

	err := WithTransaction(ctx, r.gateway, func(txCtx context.Context) error {
		if err := r.collection().InsertOne(txCtx, suggestion); err != nil {
			return fmt.Errorf("failed to insert suggestion: %w", err)
		}

		user, err := r.users.GetUser(txCtx, suggestion.Author.ID)
		if err != nil {
			return err
		}
		user.AddAuthored(suggestion.Basic())
		return r.users.UpdateUser(txCtx, user)
	})
	r.metrics.Transaction("create", err)
	if err != nil {
		r.log().WithError(err).WithField("author_id", suggestion.Author.ID).Debug("Create suggestion rolled back")
		return err
	}

	r.log().WithFields(logrus.Fields{
		"suggestion_id": suggestion.ID,
		"author_id":     suggestion.Author.ID,
	}).Info("Suggestion created")
	return nil
}

// UpvoteSuggestion toggles the vote of userID on the suggestion and mirrors
// it on the user's voted list in one transaction. It returns the new state.
func (r *MongoSuggestionRepository) UpvoteSuggestion(ctx context.Context, suggestionID, userID string) (models.VoteState, error) {
	var state models.VoteState

	err := WithTransaction(ctx, r.gateway, func(txCtx context.Context) error {
		suggestion, err := r.GetSuggestion(txCtx, suggestionID)
		if err != nil {
			return err
		}

		state = suggestion.ToggleVote(userID)

		matched, err := r.collection().ReplaceOne(txCtx, bson.M{"_id": suggestionID}, suggestion)
		if err != nil {
			return fmt.Errorf("failed to save votes of suggestion %s: %w", suggestionID, err)
		}
		if matched == 0 {
			return fmt.Errorf("%w: %s", ErrSuggestionNotFound, suggestionID)
		}

		user, err := r.users.GetUser(txCtx, userID)
		if err != nil {
			return err
		}
		user.ApplyVote(suggestion.Basic(), state)
		return r.users.UpdateUser(txCtx, user)
	})
	r.metrics.Transaction("upvote", err)
	if err != nil {
		return models.NotVoted, err
	}

	cacheDelete(ctx, r.lists, cache.AllSuggestionsKey)
	r.log().WithFields(logrus.Fields{
		"suggestion_id": suggestionID,
		"user_id":       userID,
		"state":         state.String(),
	}).Info("Vote toggled")
	return state, nil
}

func (r *MongoSuggestionRepository) find(ctx context.Context, filter bson.M) ([]models.Suggestion, error) {
	suggestions := []models.Suggestion{}
	if err := r.collection().Find(ctx, filter, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to find suggestions: %w", err)
	}
	return suggestions, nil
}
