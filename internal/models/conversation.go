package models

import "time"

// Conversation types.
const (
	ConversationDirect = "DIRECT"
	ConversationGroup  = "GROUP"
)

type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`
	Members   []string  `json:"members" bson:"members"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"` // group conversations only
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether userID participates in the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversation_id" bson:"conversation_id"`
	Sender         string    `json:"sender" bson:"sender"`
	Content        string    `json:"content" bson:"content"`
	ReadBy         []string  `json:"read_by,omitempty" bson:"read_by,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

type CreateConversationRequest struct {
	UserID string `json:"user_id"`
}

// SendMessageRequest carries only the body; the conversation comes from the
// URL.
type SendMessageRequest struct {
	Content string `json:"content"`
}
