package services

import (
	"context"
	"crypto/tls"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gampa15/foundin-backend/internal/models"
)

// MongoUploadService persists upload ownership records so delete
// authorization survives restarts.
type MongoUploadService struct {
	client  *mongo.Client
	uploads *mongo.Collection
}

var _ UploadRecordStore = (*MongoUploadService)(nil)

func NewMongoUploadService(ctx context.Context, mongoURI, dbName string) (*MongoUploadService, error) {
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

	svc := &MongoUploadService{
		client:  client,
		uploads: client.Database(dbName).Collection("uploads"),
	}

	_, _ = svc.uploads.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return svc, nil
}

func (s *MongoUploadService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoUploadService) Insert(ctx context.Context, upload *models.Upload) error {
	_, err := s.uploads.InsertOne(ctx, upload)
	return err
}

func (s *MongoUploadService) Get(ctx context.Context, id string) (*models.Upload, error) {
	var upload models.Upload
	err := s.uploads.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err == mongo.ErrNoDocuments {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (s *MongoUploadService) Remove(ctx context.Context, id string) error {
	_, err := s.uploads.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
