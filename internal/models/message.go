package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a chat message stored in MongoDB, scoped to a match
type Message struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MatchID    uint               `json:"match_id" bson:"match_id"`
	SenderID   uint               `json:"sender_id" bson:"sender_id"`
	ReceiverID uint               `json:"receiver_id" bson:"receiver_id"`
	Content    string             `json:"content" bson:"content"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
