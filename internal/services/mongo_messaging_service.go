package services

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gampa15/foundin-backend/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotAMember           = errors.New("not a member of this conversation")
)

// MongoMessagingService owns conversations and messages. It also serves the
// message-spam behavior probe with windowed counts of a sender's recent
// messages.
type MongoMessagingService struct {
	client        *mongo.Client
	db            *mongo.Database
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMongoMessagingService(ctx context.Context, mongoURI, dbName string) (*MongoMessagingService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	svc := &MongoMessagingService{
		client:        client,
		db:            db,
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}

	_, _ = svc.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "members", Value: 1}, {Key: "updated_at", Value: -1}}},
	})
	_, _ = svc.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return svc, nil
}

func (s *MongoMessagingService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureDirectConversation returns the direct conversation between the two
// users, creating it if absent.
func (s *MongoMessagingService) EnsureDirectConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error) {
	filter := bson.M{
		"type":    models.ConversationDirect,
		"members": bson.M{"$all": bson.A{userID, otherID}},
	}

	var conv models.Conversation
	err := s.conversations.FindOne(ctx, filter).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now().UTC()
	conv = models.Conversation{
		ID:        uuid.New().String(),
		Type:      models.ConversationDirect,
		Members:   []string{userID, otherID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.conversations.InsertOne(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, most recently active
// first.
func (s *MongoMessagingService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	cur, err := s.conversations.Find(ctx, bson.M{"members": userID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Conversation, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetConversation loads a conversation the user belongs to.
func (s *MongoMessagingService) GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.HasMember(userID) {
		return nil, ErrNotAMember
	}
	return &conv, nil
}

// SendMessage appends a message and bumps the conversation's activity
// timestamp. Membership is enforced here, not in the handler.
func (s *MongoMessagingService) SendMessage(ctx context.Context, conversationID, sender, content string) (*models.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, sender); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      now,
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}

	_, _ = s.conversations.UpdateOne(ctx, bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"updated_at": now}})

	return msg, nil
}

// CountRecentBySender counts messages sent at or after since. Probe input
// for the message-spam rule.
func (s *MongoMessagingService) CountRecentBySender(ctx context.Context, sender string, since time.Time) (int64, error) {
	return s.messages.CountDocuments(ctx, bson.M{
		"sender":     sender,
		"created_at": bson.M{"$gte": since},
	})
}

// ListMessages returns a conversation's messages oldest first, for members
// only.
func (s *MongoMessagingService) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	cur, err := s.messages.Find(ctx, bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Message, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSeen records the user as a reader of every other member's messages in
// the conversation and returns the ids now marked.
func (s *MongoMessagingService) MarkSeen(ctx context.Context, conversationID, userID string) ([]string, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	_, err := s.messages.UpdateMany(ctx, bson.M{
		"conversation_id": conversationID,
		"sender":          bson.M{"$ne": userID},
		"read_by":         bson.M{"$ne": userID},
	}, bson.M{
		"$addToSet": bson.M{"read_by": userID},
	})
	if err != nil {
		return nil, err
	}

	cur, err := s.messages.Find(ctx, bson.M{
		"conversation_id": conversationID,
		"sender":          bson.M{"$ne": userID},
		"read_by":         userID,
	}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := make([]string, 0)
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
