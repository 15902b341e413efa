package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"wildwatch/internal/database"
	"wildwatch/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ImageStore persists submitted photos directly in the database as base64
// data URIs, keyed by a generated UUID.
type ImageStore struct {
	collection *mongo.Collection
}

// NewImageStore creates a new image store
func NewImageStore(mongodb *database.MongoDB) *ImageStore {
	return &ImageStore{
		collection: mongodb.Collection(database.CollectionImages),
	}
}

// Store writes the image bytes as a data-URI blob record and returns the
// "db-image:{id}" reference observations embed.
func (s *ImageStore) Store(ctx context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	record := models.ImageRecord{
		ID:        uuid.New().String(),
		Data:      fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image)),
		Timestamp: time.Now().UnixMilli(),
	}

	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return models.ImageRef(record.ID), nil
}

// GetByID returns an image record, or nil when it does not exist
func (s *ImageStore) GetByID(ctx context.Context, id string) (*models.ImageRecord, error) {
	var record models.ImageRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &record, nil
}

// ListIDs returns the IDs of all stored images
func (s *ImageStore) ListIDs(ctx context.Context) ([]string, error) {
	values, err := s.collection.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list image IDs: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DeleteMany removes a batch of image records by ID
func (s *ImageStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete images: %w", err)
	}
	return result.DeletedCount, nil
}
