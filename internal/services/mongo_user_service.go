package services

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/Gampa15/foundin-backend/internal/models"
)

var (
	ErrEmailExists     = errors.New("email or phone already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrAccountInactive = errors.New("account is not active")
)

// MongoUserService owns the users collection, including the trust and
// authenticity fields mutated by the fraud subsystem.
type MongoUserService struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

// Interface checks: the fraud subsystem depends on UserStore only.
var _ UserStore = (*MongoUserService)(nil)

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
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
	col := db.Collection("users")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})

	log.Printf("MongoDB connected: db=%s col=users", dbName)
	return &MongoUserService{client: client, db: db, col: col}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Register creates a user with the default authenticity score and tier.
func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := s.col.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone": req.Phone},
	}})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                uuid.New().String(),
		Email:             email,
		Phone:             req.Phone,
		PasswordHash:      string(hash),
		Role:              req.Role,
		Status:            models.StatusActive,
		AuthenticityScore: models.DefaultAuthenticityScore,
		TrustTier:         TierForScore(models.DefaultAuthenticityScore),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and rejects non-active accounts.
func (s *MongoUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Status != models.StatusActive {
		return nil, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return &user, nil
}

func (s *MongoUserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ApplyScore persists score, tier and the optional negative-flag increment
// as a single document update so the tier can never drift from the score.
func (s *MongoUserService) ApplyScore(ctx context.Context, id string, score int, tier string, negative bool) error {
	update := bson.M{
		"$set": bson.M{
			"authenticity_score": score,
			"trust_tier":         tier,
			"updated_at":         time.Now().UTC(),
		},
	}
	if negative {
		update["$inc"] = bson.M{"negative_flags": 1}
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementFraudFlags bumps the counter and last-fraud timestamp in one
// storage operation and returns the post-increment document, so concurrent
// flags each observe a distinct count.
func (s *MongoUserService) IncrementFraudFlags(ctx context.Context, id string, at time.Time) (*models.User, error) {
	update := bson.M{
		"$inc": bson.M{"fraud_flags": 1},
		"$set": bson.M{"last_fraud_at": at, "updated_at": at},
	}

	var user models.User
	err := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) Suspend(ctx context.Context, id string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.StatusSuspended, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
