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

var ErrVerificationNotFound = errors.New("verification request not found")

// MongoVerificationService owns startup verification requests. Approval
// propagates the verified level to the startup document.
type MongoVerificationService struct {
	client   *mongo.Client
	db       *mongo.Database
	col      *mongo.Collection
	startups *mongo.Collection
}

func NewMongoVerificationService(ctx context.Context, mongoURI, dbName string) (*MongoVerificationService, error) {
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

	svc := &MongoVerificationService{
		client:   client,
		db:       db,
		col:      db.Collection("verifications"),
		startups: db.Collection("startups"),
	}

	_, _ = svc.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	})

	return svc, nil
}

func (s *MongoVerificationService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoVerificationService) Apply(ctx context.Context, userID string, req *models.ApplyVerificationRequest) (*models.Verification, error) {
	now := time.Now().UTC()
	verification := &models.Verification{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartupID: req.StartupID,
		Level:     req.Level,
		Documents: req.Documents,
		Status:    models.VerificationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, verification); err != nil {
		return nil, err
	}
	return verification, nil
}

func (s *MongoVerificationService) ListMine(ctx context.Context, userID string) ([]models.Verification, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

func (s *MongoVerificationService) ListPending(ctx context.Context) ([]models.Verification, error) {
	return s.find(ctx, bson.M{"status": models.VerificationPending})
}

func (s *MongoVerificationService) find(ctx context.Context, filter bson.M) ([]models.Verification, error) {
	cur, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Verification, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review applies the admin decision. An approval with an attached startup
// raises that startup's verified level.
func (s *MongoVerificationService) Review(ctx context.Context, id, reviewerID string, req *models.ReviewVerificationRequest) (*models.Verification, error) {
	var verification models.Verification
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":      req.Status,
			"remarks":     req.Remarks,
			"reviewed_by": reviewerID,
			"updated_at":  time.Now().UTC(),
		},
	}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&verification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}

	if verification.Status == models.VerificationApproved && verification.StartupID != "" {
		_, err := s.startups.UpdateOne(ctx, bson.M{"_id": verification.StartupID}, bson.M{
			"$set": bson.M{"verified_level": verification.Level, "updated_at": time.Now().UTC()},
		})
		if err != nil {
			return nil, err
		}
	}

	return &verification, nil
}
