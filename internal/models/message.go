package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a direct or group chat stored in MongoDB. Direct
// conversations have exactly two participants and no name.
type Conversation struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Participants []uint             `json:"participants" bson:"participants"`
	IsGroup      bool               `json:"is_group" bson:"is_group"`
	Name         string             `json:"name,omitempty" bson:"name,omitempty"`
	CreatedBy    uint               `json:"created_by" bson:"created_by"`
	LastMessage  string             `json:"last_message,omitempty" bson:"last_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Message represents a single chat message stored in MongoDB
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       uint               `json:"sender_id" bson:"sender_id"`
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// CreateConversationRequest defines the request body for starting a conversation
type CreateConversationRequest struct {
	ParticipantIDs []uint `json:"participant_ids" validate:"required,min=1"`
	Name           string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
