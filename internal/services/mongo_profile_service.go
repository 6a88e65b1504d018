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

var ErrProfileNotFound = errors.New("profile not found")

// MongoProfileService owns the profiles collection. Profiles are
// self-healing: reading your own profile creates an empty one if registration
// somehow skipped it.
type MongoProfileService struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
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
	col := db.Collection("profiles")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoProfileService{client: client, db: db, col: col}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure creates an empty profile for the user if none exists and returns
// the current one.
func (s *MongoProfileService) Ensure(ctx context.Context, userID string) (*models.Profile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"user_id":    userID,
			"full_name":  "",
			"bio":        "",
			"skills":     []string{},
			"created_at": now,
			"updated_at": now,
		},
	}

	var profile models.Profile
	err := s.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *MongoProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	var profile models.Profile
	err := s.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, bson.M{
		"$set": bson.M{
			"full_name":  req.FullName,
			"bio":        req.Bio,
			"skills":     skills,
			"updated_at": time.Now().UTC(),
		},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}
