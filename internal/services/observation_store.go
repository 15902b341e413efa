package services

import (
	"context"
	"fmt"
	"time"

	"wildwatch/internal/database"
	"wildwatch/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// High value code point used as the upper bound of prefix-range scans over
// the notes field, mirroring the Firestore "" convention.
const prefixRangeUpperBound = ""

// ObservationStore handles CRUD for observations in MongoDB
type ObservationStore struct {
	collection *mongo.Collection
}

// NewObservationStore creates a new observation store
func NewObservationStore(mongodb *database.MongoDB) *ObservationStore {
	return &ObservationStore{
		collection: mongodb.Collection(database.CollectionObservations),
	}
}

// Create inserts a new observation, assigning its ID and creation timestamp.
// Observations are write-once; there is no update path.
func (s *ObservationStore) Create(ctx context.Context, observation *models.Observation) error {
	observation.ID = uuid.New().String()
	observation.CreatedAt = time.Now().UnixMilli()

	if _, err := s.collection.InsertOne(ctx, observation); err != nil {
		return fmt.Errorf("failed to create observation: %w", err)
	}
	return nil
}

// GetByID returns an observation by ID, or nil when it does not exist
func (s *ObservationStore) GetByID(ctx context.Context, id string) (*models.Observation, error) {
	var observation models.Observation
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&observation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}
	return &observation, nil
}

// Recent returns the most recently created observations, newest first
func (s *ObservationStore) Recent(ctx context.Context, limit int64) ([]models.Observation, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer cursor.Close(ctx)

	var observations []models.Observation
	if err := cursor.All(ctx, &observations); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	return observations, nil
}

// FindByNotesPrefix returns observations whose notes fall in the prefix
// range [prefix, prefix+""], the document-store equivalent of a
// starts-with match.
func (s *ObservationStore) FindByNotesPrefix(ctx context.Context, prefix string) ([]models.Observation, error) {
	filter := bson.M{"notes": bson.M{
		"$gte": prefix,
		"$lte": prefix + prefixRangeUpperBound,
	}}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations by notes: %w", err)
	}
	defer cursor.Close(ctx)

	var observations []models.Observation
	if err := cursor.All(ctx, &observations); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}
	return observations, nil
}

// ReferencedImageIDs returns the set of image IDs that observations point at
// through their "db-image:{id}" references.
func (s *ObservationStore) ReferencedImageIDs(ctx context.Context) (map[string]struct{}, error) {
	values, err := s.collection.Distinct(ctx, "image_url", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list image references: %w", err)
	}

	ids := make(map[string]struct{}, len(values))
	for _, v := range values {
		ref, ok := v.(string)
		if !ok {
			continue
		}
		if id, found := models.ImageIDFromRef(ref); found {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
