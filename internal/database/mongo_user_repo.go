package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"suggestion-tracker/internal/database/models"
)

const userCollectionName = "users"

// MongoUserRepository implements UserRepository on a Gateway.
type MongoUserRepository struct {
	gateway        Gateway
	collectionName string
}

// NewMongoUserRepository creates a new user repository. An empty collectionName selects "users".
func NewMongoUserRepository(gw Gateway, collectionName string) *MongoUserRepository {
	if collectionName == "" {
		collectionName = userCollectionName
	}
	return &MongoUserRepository{gateway: gw, collectionName: collectionName}
}

var _ UserRepository = (*MongoUserRepository)(nil)

func (r *MongoUserRepository) collection() Collection {
	return r.gateway.Collection(r.collectionName)
}

// GetUsers returns every user.
func (r *MongoUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.collection().Find(ctx, bson.M{}, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID. It returns ErrUserNotFound if no user matches.
func (r *MongoUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

// GetUserFromAuthentication retrieves the user linked to an identity provider subject.
func (r *MongoUserRepository) GetUserFromAuthentication(ctx context.Context, objectID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"object_identifier": objectID}, objectID)
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, ref string) (*models.User, error) {
	var user models.User
	if err := r.collection().FindOne(ctx, filter, &user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", ref, err)
	}
	return &user, nil
}

// CreateUser inserts a new user, generating its ID if empty.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.AuthoredSuggestions == nil {
		user.AuthoredSuggestions = []models.BasicSuggestion{}
	}
	if user.VotedOnSuggestions == nil {
		user.VotedOnSuggestions = []models.BasicSuggestion{}
	}
	if err := r.collection().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser replaces the stored user. It returns ErrUserNotFound if the user does not exist.
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	matched, err := r.collection().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, user.ID)
	}
	return nil
}
