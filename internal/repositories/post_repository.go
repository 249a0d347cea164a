package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rasel97/snapthread/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post id resolves to no document.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations. Every
// sub-resource mutation (reaction, comment, reply) goes through GetPostByID
// followed by SavePost: the aggregate is the unit of persistence.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
	GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	GetFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string, skip, limit int64) ([]models.Post, error)
	CountFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string) (int64, error)
	GetPostsByHashtag(ctx context.Context, hashtag string, skip, limit int64) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
	GetDueScheduledPosts(ctx context.Context, now time.Time) ([]models.Post, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) error
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
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// SavePost overwrites the whole post document with the in-memory aggregate.
// Last write wins; there is no version guard on the document.
func (r *MongoPostRepository) SavePost(ctx context.Context, post *models.Post) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetPostsByAuthorID retrieves published posts by a specific user
func (r *MongoPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{"author_id": authorID, "published": true}
	return r.findPosts(ctx, filter, skip, limit)
}

func feedFilter(authorIDs []uint, hashtags []string) bson.M {
	or := []bson.M{{"author_id": bson.M{"$in": authorIDs}}}
	if len(hashtags) > 0 {
		or = append(or, bson.M{"hashtags": bson.M{"$in": hashtags}})
	}
	return bson.M{"published": true, "$or": or}
}

// GetFeedPosts retrieves published posts authored by the given users or
// carrying any of the given hashtags, newest first.
func (r *MongoPostRepository) GetFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string, skip, limit int64) ([]models.Post, error) {
	return r.findPosts(ctx, feedFilter(authorIDs, hashtags), skip, limit)
}

// CountFeedPosts counts the documents matching the feed filter
func (r *MongoPostRepository) CountFeedPosts(ctx context.Context, authorIDs []uint, hashtags []string) (int64, error) {
	return r.collection.CountDocuments(ctx, feedFilter(authorIDs, hashtags))
}

// GetPostsByHashtag retrieves published posts tagged with the given hashtag
func (r *MongoPostRepository) GetPostsByHashtag(ctx context.Context, hashtag string, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{"hashtags": hashtag, "published": true}
	return r.findPosts(ctx, filter, skip, limit)
}

func (r *MongoPostRepository) findPosts(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
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
		return ErrPostNotFound
	}
	return nil
}

// GetDueScheduledPosts retrieves unpublished posts whose scheduled time has passed
func (r *MongoPostRepository) GetDueScheduledPosts(ctx context.Context, now time.Time) ([]models.Post, error) {
	filter := bson.M{"published": false, "scheduled_at": bson.M{"$lte": now}}
	return r.findPosts(ctx, filter, 0, 0)
}

// MarkPublished flips a scheduled post to published
func (r *MongoPostRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, publishedAt time.Time) error {
	update := bson.M{"$set": bson.M{"published": true, "created_at": publishedAt, "updated_at": publishedAt}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
