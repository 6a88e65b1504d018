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

var ErrReportNotFound = errors.New("report not found")

// MongoFraudService owns the moderation collections: the immutable fraud
// audit trail, admin action records, and user-filed reports.
type MongoFraudService struct {
	client       *mongo.Client
	db           *mongo.Database
	fraudReports *mongo.Collection
	fraudFlags   *mongo.Collection
	reports      *mongo.Collection
}

var _ FraudReportStore = (*MongoFraudService)(nil)

func NewMongoFraudService(ctx context.Context, mongoURI, dbName string) (*MongoFraudService, error) {
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

	svc := &MongoFraudService{
		client:       client,
		db:           db,
		fraudReports: db.Collection("fraud_reports"),
		fraudFlags:   db.Collection("fraud_flags"),
		reports:      db.Collection("reports"),
	}

	_, _ = svc.fraudReports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reported_user", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	_, _ = svc.reports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return svc, nil
}

func (s *MongoFraudService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Insert writes one immutable fraud audit record.
func (s *MongoFraudService) Insert(ctx context.Context, report *models.FraudReport) error {
	_, err := s.fraudReports.InsertOne(ctx, report)
	return err
}

// ListFraudReports returns the audit trail, newest first, optionally
// limited to one user.
func (s *MongoFraudService) ListFraudReports(ctx context.Context, userID string, limit int64) ([]models.FraudReport, error) {
	filter := bson.M{}
	if userID != "" {
		filter["reported_user"] = userID
	}
	cur, err := s.fraudReports.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.FraudReport, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReport files a user complaint for admin review.
func (s *MongoFraudService) CreateReport(ctx context.Context, reportedBy string, req *models.CreateReportRequest) (*models.Report, error) {
	now := time.Now().UTC()
	report := &models.Report{
		ID:           uuid.New().String(),
		ReportedUser: req.ReportedUser,
		ReportedIdea: req.ReportedIdea,
		ReportedBy:   reportedBy,
		Reason:       req.Reason,
		Status:       models.ReportOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.reports.InsertOne(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns all complaints, newest first.
func (s *MongoFraudService) ListReports(ctx context.Context) ([]models.Report, error) {
	cur, err := s.reports.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Report, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoFraudService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := s.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// MarkReportReviewed closes out a complaint after admin action.
func (s *MongoFraudService) MarkReportReviewed(ctx context.Context, id string) error {
	res, err := s.reports.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.ReportReviewed, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

// RecordAction writes the admin action taken against a user.
func (s *MongoFraudService) RecordAction(ctx context.Context, userID, reason, severity, action string) (*models.FraudFlag, error) {
	flag := &models.FraudFlag{
		ID:          uuid.New().String(),
		UserID:      userID,
		Reason:      reason,
		Severity:    severity,
		ActionTaken: action,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.fraudFlags.InsertOne(ctx, flag); err != nil {
		return nil, err
	}
	return flag, nil
}
