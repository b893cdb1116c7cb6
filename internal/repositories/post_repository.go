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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	GetPostsByUserIDs(ctx context.Context, userIDs []string, skip, limit int64) ([]models.Post, error)
	GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	CountPostsByUserIDs(ctx context.Context, userIDs []string) (int64, error)
	DeletePost(ctx context.Context, id string) error
	IncrementLikesCount(ctx context.Context, postID string, delta int) error
	IncrementCommentsCount(ctx context.Context, postID string, delta int) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves all posts from MongoDB with pagination, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, skip, limit, bson.D{{Key: "created_at", Value: -1}})
}

// GetPostsByUserIDs retrieves posts authored by any of the given users,
// newest first. An empty author set yields no posts.
func (r *MongoPostRepository) GetPostsByUserIDs(ctx context.Context, userIDs []string, skip, limit int64) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	filter := bson.M{"user_id": bson.M{"$in": userIDs}}
	return r.find(ctx, filter, skip, limit, bson.D{{Key: "created_at", Value: -1}})
}

// GetTrendingPosts retrieves posts created after the given cutoff, ordered
// by like count descending and capped at limit.
func (r *MongoPostRepository) GetTrendingPosts(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	sort := bson.D{{Key: "likes_count", Value: -1}, {Key: "created_at", Value: -1}}
	return r.find(ctx, filter, 0, limit, sort)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64, sort bson.D) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(sort)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountPostsByUserIDs returns the number of posts authored by any of the
// given users. An empty author set counts zero posts.
func (r *MongoPostRepository) CountPostsByUserIDs(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
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

// IncrementLikesCount adjusts the like counter of a post atomically. The
// counter never drops below zero.
func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, postID string, delta int) error {
	return r.incrementCounter(ctx, postID, "likes_count", delta)
}

// IncrementCommentsCount adjusts the comment counter of a post atomically
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string, delta int) error {
	return r.incrementCounter(ctx, postID, "comments_count", delta)
}

func (r *MongoPostRepository) incrementCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	filter := bson.M{"_id": objID}
	if delta < 0 {
		// Guard the non-negative invariant on decrements
		filter[field] = bson.M{"$gte": -delta}
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
