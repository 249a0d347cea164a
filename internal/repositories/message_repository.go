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

// ErrConversationNotFound is returned when a conversation id resolves to no document.
var ErrConversationNotFound = errors.New("conversation not found")

// MessageRepository defines the interface for conversation and message operations
type MessageRepository interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetDirectConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID uint) ([]models.Conversation, error)
	TouchConversation(ctx context.Context, id primitive.ObjectID, lastMessage string) error
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessages(ctx context.Context, conversationID primitive.ObjectID, skip, limit int64) ([]models.Message, error)
}

type mongoMessageRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

func (r *mongoMessageRepository) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	conversation.ID = primitive.NewObjectID()
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = time.Now()
	_, err := r.conversations.InsertOne(ctx, conversation)
	return err
}

func (r *mongoMessageRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}
	var conversation models.Conversation
	err = r.conversations.FindOne(ctx, bson.M{"_id": objID}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// GetDirectConversation finds the existing two-party conversation between the
// users, if one exists.
func (r *mongoMessageRepository) GetDirectConversation(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	filter := bson.M{
		"is_group":     false,
		"participants": bson.M{"$all": []uint{userA, userB}},
	}
	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *mongoMessageRepository) GetConversationsForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	filter := bson.M{"participants": userID}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// TouchConversation records the latest message preview and bumps updated_at
func (r *mongoMessageRepository) TouchConversation(ctx context.Context, id primitive.ObjectID, lastMessage string) error {
	update := bson.M{"$set": bson.M{"last_message": lastMessage, "updated_at": time.Now()}}
	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *mongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	_, err := r.messages.InsertOne(ctx, message)
	return err
}

func (r *mongoMessageRepository) GetMessages(ctx context.Context, conversationID primitive.ObjectID, skip, limit int64) ([]models.Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
