package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/kapilnath546/study-buddies/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPollByID(ctx context.Context, id string) (*models.Poll, error)
	GetAllPolls(ctx context.Context, skip, limit int64) ([]models.Poll, error)
	CastVote(ctx context.Context, pollID, option string) error
	DeletePoll(ctx context.Context, id string) error
}

// MongoPollRepository implements PollRepository for MongoDB
type MongoPollRepository struct {
	collection *mongo.Collection
}

// NewMongoPollRepository creates a new MongoPollRepository
func NewMongoPollRepository(db *mongo.Database) *MongoPollRepository {
	return &MongoPollRepository{collection: db.Collection("polls")}
}

// CreatePoll creates a new poll in MongoDB with an empty vote mapping
func (r *MongoPollRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	poll.ID = primitive.NewObjectID()
	poll.CreatedAt = time.Now()
	if poll.Votes == nil {
		poll.Votes = map[string]int64{}
	}
	_, err := r.collection.InsertOne(ctx, poll)
	return err
}

// GetPollByID retrieves a poll by ID from MongoDB
func (r *MongoPollRepository) GetPollByID(ctx context.Context, id string) (*models.Poll, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid poll ID format: %w", err)
	}

	var poll models.Poll
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// GetAllPolls retrieves all polls from MongoDB with pagination, newest first
func (r *MongoPollRepository) GetAllPolls(ctx context.Context, skip, limit int64) ([]models.Poll, error) {
	polls := []models.Poll{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// CastVote increments the vote count for one option atomically. The filter
// requires the option to be part of the poll's option list, keeping the
// vote mapping keys a subset of the options.
func (r *MongoPollRepository) CastVote(ctx context.Context, pollID, option string) error {
	objID, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}
	filter := bson.M{"_id": objID, "options": option}
	update := bson.M{"$inc": bson.M{"votes." + option: 1}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePoll deletes a poll by ID from MongoDB
func (r *MongoPollRepository) DeletePoll(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid poll ID format: %w", err)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
