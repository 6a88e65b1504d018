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

var ErrAdNotFound = errors.New("ad not found")

// MongoAdService owns the ads collection. It also serves the rapid-ad
// behavior probe with windowed counts of a user's recent submissions.
type MongoAdService struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewMongoAdService(ctx context.Context, mongoURI, dbName string) (*MongoAdService, error) {
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
	col := db.Collection("ads")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_featured", Value: -1}, {Key: "created_at", Value: -1}}},
	})

	return &MongoAdService{client: client, db: db, col: col}, nil
}

func (s *MongoAdService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Create submits an ad for review. New ads always start pending.
func (s *MongoAdService) Create(ctx context.Context, userID string, req *models.CreateAdRequest) (*models.Ad, error) {
	now := time.Now().UTC()
	ad := &models.Ad{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		BusinessName: req.BusinessName,
		Website:      req.Website,
		CreatedBy:    userID,
		Status:       models.AdPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.col.InsertOne(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// CountRecentByUser counts the user's submissions at or after since, by
// creation timestamp. Probe input for the rapid-ad-submissions rule.
func (s *MongoAdService) CountRecentByUser(ctx context.Context, userID string, since time.Time) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{
		"created_by": userID,
		"created_at": bson.M{"$gte": since},
	})
}

// ListApproved returns the public feed: featured first, then newest.
func (s *MongoAdService) ListApproved(ctx context.Context) ([]models.Ad, error) {
	cur, err := s.col.Find(ctx, bson.M{"status": models.AdApproved},
		options.Find().SetSort(bson.D{
			{Key: "is_featured", Value: -1},
			{Key: "created_at", Value: -1},
		}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Ad, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review applies an admin decision to an ad.
func (s *MongoAdService) Review(ctx context.Context, adID string, req *models.ReviewAdRequest) (*models.Ad, error) {
	update := bson.M{"$set": bson.M{
		"status":           req.Status,
		"rejection_reason": req.RejectionReason,
		"is_featured":      req.IsFeatured,
		"updated_at":       time.Now().UTC(),
	}}

	var ad models.Ad
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": adID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&ad)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return &ad, nil
}
