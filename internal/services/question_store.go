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

// QuestionStore records asked questions and their answers
type QuestionStore struct {
	collection *mongo.Collection
}

// NewQuestionStore creates a new question store
func NewQuestionStore(mongodb *database.MongoDB) *QuestionStore {
	return &QuestionStore{
		collection: mongodb.Collection(database.CollectionQuestions),
	}
}

// Create inserts a question record, assigning its ID and timestamp
func (s *QuestionStore) Create(ctx context.Context, question *models.Question) error {
	question.ID = uuid.New().String()
	question.Timestamp = time.Now().UnixMilli()

	if _, err := s.collection.InsertOne(ctx, question); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// Recent returns the most recently asked questions, newest first
func (s *QuestionStore) Recent(ctx context.Context, limit int64) ([]models.Question, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}
