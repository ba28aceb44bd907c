package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"suggestion-tracker/internal/config"
	"suggestion-tracker/internal/logger"
)

// MongoGateway implements Gateway on a MongoDB database.
type MongoGateway struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoGateway wraps an already connected client.
func NewMongoGateway(client *mongo.Client, dbName string) *MongoGateway {
	return &MongoGateway{client: client, db: client.Database(dbName)}
}

// ConnectDB establishes a connection to the MongoDB specified in the configuration.
// It returns a gateway bound to the configured database, or an error if the
// connection or the verification ping fails.
func ConnectDB(ctx context.Context, cfg *config.Config) (*MongoGateway, error) {
	log := logger.WithComponent("mongodb")

	ctx, cancel := context.WithTimeout(ctx, cfg.MongoDBTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(cfg.MongoDBURI).
		SetServerAPIOptions(serverAPI).
		SetTimeout(cfg.MongoDBTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify the connection
	if err := client.Ping(ctx, nil); err != nil {
		// Ensure disconnect attempt happens before returning the ping error
		if disconnectErr := client.Disconnect(context.WithoutCancel(ctx)); disconnectErr != nil {
			log.WithError(disconnectErr).Warn("Error disconnecting MongoDB after ping failure")
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.WithField("database", cfg.MongoDBDatabase).Info("Successfully connected to MongoDB")
	return NewMongoGateway(client, cfg.MongoDBDatabase), nil
}

// Disconnect closes the underlying client.
func (g *MongoGateway) Disconnect(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

// Collection implements Gateway.
func (g *MongoGateway) Collection(name string) Collection {
	return &mongoCollection{coll: g.db.Collection(name)}
}

// StartSession implements Gateway.
func (g *MongoGateway) StartSession(_ context.Context) (Session, error) {
	sess, err := g.client.StartSession(options.Session().SetCausalConsistency(true))
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB session: %w", err)
	}
	return &mongoSession{sess: sess}, nil
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, results any) error {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return nil
}

// FindOne returns mongo.ErrNoDocuments unwrapped so callers can map it to their own sentinel.
func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, result any) error {
	err := c.coll.FindOne(ctx, filter).Decode(result)
	if err == nil || err == mongo.ErrNoDocuments {
		return err
	}
	return fmt.Errorf("failed to find in %s: %w", c.coll.Name(), err)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) ReplaceOne(ctx context.Context, filter bson.M, doc any) (int64, error) {
	result, err := c.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to replace in %s: %w", c.coll.Name(), err)
	}
	return result.MatchedCount, nil
}

type mongoSession struct {
	sess mongo.Session
}

// StartTransaction uses snapshot reads and majority writes so a transaction
// never observes another one half-applied.
func (s *mongoSession) StartTransaction() error {
	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	return s.sess.StartTransaction(opts)
}

func (s *mongoSession) CommitTransaction(ctx context.Context) error {
	return s.sess.CommitTransaction(ctx)
}

func (s *mongoSession) AbortTransaction(ctx context.Context) error {
	return s.sess.AbortTransaction(ctx)
}

func (s *mongoSession) EndSession(ctx context.Context) {
	s.sess.EndSession(ctx)
}

func (s *mongoSession) Bind(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, s.sess)
}
