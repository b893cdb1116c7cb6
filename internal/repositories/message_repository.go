package repositories

import (
	"context"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for chat message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessagesByMatchID(ctx context.Context, matchID uint, limit int64) ([]models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage appends a new message to the match conversation
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetMessagesByMatchID retrieves messages of a match ordered by creation time
func (r *MongoMessageRepository) GetMessagesByMatchID(ctx context.Context, matchID uint, limit int64) ([]models.Message, error) {
	messages := []models.Message{}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"match_id": matchID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
