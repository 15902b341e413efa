package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// Collection names
const (
	CollectionObservations = "observations"
	CollectionQuestions    = "questions"
	CollectionKnowledge    = "knowledge_base"
	CollectionImages       = "images"
)

// NewMongoDB creates a new MongoDB connection with connection pooling
func NewMongoDB(uri string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDBName(uri)
	if dbName == "" {
		dbName = "wildwatch"
	}

	db := &MongoDB{
		client:   client,
		database: client.Database(dbName),
		dbName:   dbName,
	}

	slog.Info("Connected to MongoDB", "database", dbName)

	return db, nil
}

// extractDBName extracts the database name from a MongoDB URI:
// mongodb://localhost:27017/wildwatch?authSource=admin -> wildwatch
func extractDBName(uri string) string {
	lastSlash := -1
	questionMark := -1

	for i, c := range uri {
		if c == '/' {
			lastSlash = i
		}
		if c == '?' && questionMark == -1 {
			questionMark = i
		}
	}

	if lastSlash != -1 {
		start := lastSlash + 1
		end := len(uri)
		if questionMark != -1 && questionMark > lastSlash {
			end = questionMark
		}
		if start < end {
			name := uri[start:end]
			// A host:port or credential fragment means the URI had no path
			for _, c := range name {
				if c == ':' || c == '@' {
					return "wildwatch"
				}
			}
			return name
		}
	}

	return "wildwatch"
}

// Initialize creates indexes for all collections
func (m *MongoDB) Initialize(ctx context.Context) error {
	slog.Info("Initializing MongoDB indexes")

	// Observations: recency ordering, notes prefix-range scans, image refs
	if err := m.createIndexes(ctx, CollectionObservations, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "notes", Value: 1}}},
		{Keys: bson.D{{Key: "image_url", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create observations indexes: %w", err)
	}

	// Questions: recency ordering
	if err := m.createIndexes(ctx, CollectionQuestions, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create questions indexes: %w", err)
	}

	// Knowledge base: tag-contains lookups
	if err := m.createIndexes(ctx, CollectionKnowledge, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create knowledge_base indexes: %w", err)
	}

	// Images: recency ordering for maintenance scans
	if err := m.createIndexes(ctx, CollectionImages, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("failed to create images indexes: %w", err)
	}

	slog.Info("MongoDB indexes initialized")
	return nil
}

// createIndexes creates indexes for a collection
func (m *MongoDB) createIndexes(ctx context.Context, collectionName string, indexes []mongo.IndexModel) error {
	collection := m.database.Collection(collectionName)
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Collection returns a collection handle
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// Ping checks if the database connection is alive
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close closes the MongoDB connection
func (m *MongoDB) Close(ctx context.Context) error {
	slog.Info("Closing MongoDB connection")
	return m.client.Disconnect(ctx)
}
