package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"suggestion-tracker/internal/cache"
	"suggestion-tracker/internal/database/models"
	"suggestion-tracker/internal/logger"
	"suggestion-tracker/internal/metrics"
)

const (
	statusCollectionName = "statuses"

	// DefaultStatusCacheTTL is long because statuses almost never change.
	DefaultStatusCacheTTL = 24 * time.Hour

	cacheNameStatuses = "statuses_all"
)

// MongoStatusRepository implements StatusRepository with a cached list.
type MongoStatusRepository struct {
	gateway        Gateway
	collectionName string
	lists          listCache
}

// NewMongoStatusRepository creates a new status repository. An empty collectionName selects "statuses".
func NewMongoStatusRepository(gw Gateway, collectionName string, c cache.Cache, m *metrics.Recorder) *MongoStatusRepository {
	if collectionName == "" {
		collectionName = statusCollectionName
	}
	return &MongoStatusRepository{
		gateway:        gw,
		collectionName: collectionName,
		lists: listCache{
			cache:   c,
			ttl:     DefaultStatusCacheTTL,
			metrics: m,
			log:     logger.WithComponent("status_repository"),
		},
	}
}

var _ StatusRepository = (*MongoStatusRepository)(nil)

// GetAllStatuses returns every status.
func (r *MongoStatusRepository) GetAllStatuses(ctx context.Context) ([]models.Status, error) {
	return loadList(ctx, r.lists, cacheNameStatuses, cache.AllStatusesKey, func(ctx context.Context) ([]models.Status, error) {
		statuses := []models.Status{}
		if err := r.gateway.Collection(r.collectionName).Find(ctx, bson.M{}, &statuses); err != nil {
			return nil, fmt.Errorf("failed to find statuses: %w", err)
		}
		return statuses, nil
	})
}

// CreateStatus inserts a status and drops the cached list.
func (r *MongoStatusRepository) CreateStatus(ctx context.Context, status *models.Status) error {
	if status.ID == "" {
		status.ID = primitive.NewObjectID().Hex()
	}
	if err := r.gateway.Collection(r.collectionName).InsertOne(ctx, status); err != nil {
		return fmt.Errorf("failed to create status: %w", err)
	}
	cacheDelete(ctx, r.lists, cache.AllStatusesKey)
	return nil
}
