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
	ErrStartupNotFound = errors.New("startup not found")
	ErrIdeaNotFound    = errors.New("idea not found")
	ErrNotOwner        = errors.New("not the owner of this startup")
	ErrProfileRequired = errors.New("profile required")
)

// MongoStartupService owns the startup-centric collections: startups, the
// ideas pitched under them, and job postings.
type MongoStartupService struct {
	client   *mongo.Client
	db       *mongo.Database
	startups *mongo.Collection
	ideas    *mongo.Collection
	jobs     *mongo.Collection
	profiles *mongo.Collection
}

func NewMongoStartupService(ctx context.Context, mongoURI, dbName string) (*MongoStartupService, error) {
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

	svc := &MongoStartupService{
		client:   client,
		db:       db,
		startups: db.Collection("startups"),
		ideas:    db.Collection("ideas"),
		jobs:     db.Collection("jobs"),
		profiles: db.Collection("profiles"),
	}

	_, _ = svc.startups.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	})
	_, _ = svc.ideas.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "startup_id", Value: 1}}},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "is_draft", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	_, _ = svc.jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "startup_id", Value: 1}}},
		{Keys: bson.D{{Key: "is_featured", Value: -1}, {Key: "created_at", Value: -1}}},
	})

	return svc, nil
}

func (s *MongoStartupService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CreateStartup requires an existing profile, matching the onboarding flow.
func (s *MongoStartupService) CreateStartup(ctx context.Context, ownerID string, req *models.CreateStartupRequest) (*models.Startup, error) {
	count, err := s.profiles.CountDocuments(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrProfileRequired
	}

	stage := req.Stage
	if stage == "" {
		stage = models.StageIdea
	}

	now := time.Now().UTC()
	startup := &models.Startup{
		ID:            uuid.New().String(),
		Owner:         ownerID,
		Name:          req.Name,
		Sector:        req.Sector,
		Domain:        req.Domain,
		Stage:         stage,
		VerifiedLevel: models.VerifiedNone,
		Description:   req.Description,
		Website:       req.Website,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.startups.InsertOne(ctx, startup); err != nil {
		return nil, err
	}
	return startup, nil
}

func (s *MongoStartupService) GetStartup(ctx context.Context, id string) (*models.Startup, error) {
	var startup models.Startup
	if err := s.startups.FindOne(ctx, bson.M{"_id": id}).Decode(&startup); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStartupNotFound
		}
		return nil, err
	}
	return &startup, nil
}

func (s *MongoStartupService) ListMyStartups(ctx context.Context, ownerID string) ([]models.Startup, error) {
	cur, err := s.startups.Find(ctx, bson.M{"owner": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Startup, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIdea pitches an idea under one of the caller's startups, snapshotting
// the startup's sector and stage.
func (s *MongoStartupService) CreateIdea(ctx context.Context, ownerID string, req *models.CreateIdeaRequest) (*models.Idea, error) {
	var startup models.Startup
	err := s.startups.FindOne(ctx, bson.M{"_id": req.StartupID, "owner": ownerID}).Decode(&startup)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotOwner
		}
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	marketSize := req.MarketSize
	if marketSize == "" {
		marketSize = "UNKNOWN"
	}
	teamSize := req.TeamSize
	if teamSize < 1 {
		teamSize = 1
	}

	now := time.Now().UTC()
	idea := &models.Idea{
		ID:              uuid.New().String(),
		StartupID:       startup.ID,
		Owner:           ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Visibility:      visibility,
		Sector:          startup.Sector,
		Stage:           startup.Stage,
		Problem:         req.Problem,
		Solution:        req.Solution,
		TargetAudience:  req.TargetAudience,
		MarketSize:      marketSize,
		Differentiation: req.Differentiation,
		Traction:        req.Traction,
		TeamSize:        teamSize,
		MissingSkills:   req.MissingSkills,
		Ask:             req.Ask,
		MediaURL:        req.MediaURL,
		MediaType:       req.MediaType,
		IsDraft:         req.IsDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.ideas.InsertOne(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *MongoStartupService) ListMyIdeas(ctx context.Context, ownerID string) ([]models.Idea, error) {
	return s.findIdeas(ctx, bson.M{"owner": ownerID})
}

// ListPublicIdeas is the discovery feed: public, non-draft ideas.
func (s *MongoStartupService) ListPublicIdeas(ctx context.Context) ([]models.Idea, error) {
	return s.findIdeas(ctx, bson.M{
		"visibility": models.VisibilityPublic,
		"is_draft":   false,
	})
}

func (s *MongoStartupService) ListIdeasByStartup(ctx context.Context, startupID string) ([]models.Idea, error) {
	return s.findIdeas(ctx, bson.M{"startup_id": startupID})
}

func (s *MongoStartupService) findIdeas(ctx context.Context, filter bson.M) ([]models.Idea, error) {
	cur, err := s.ideas.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Idea, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LikeIdea records a like once per user and returns the like count.
func (s *MongoStartupService) LikeIdea(ctx context.Context, ideaID, userID string) (int, error) {
	var idea models.Idea
	err := s.ideas.FindOneAndUpdate(ctx, bson.M{"_id": ideaID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&idea)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrIdeaNotFound
		}
		return 0, err
	}
	return len(idea.Likes), nil
}

// CreateJob posts a role under one of the caller's startups.
func (s *MongoStartupService) CreateJob(ctx context.Context, posterID string, req *models.CreateJobRequest) (*models.Job, error) {
	count, err := s.startups.CountDocuments(ctx, bson.M{"_id": req.StartupID, "owner": posterID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotOwner
	}

	jobType := req.JobType
	if jobType == "" {
		jobType = models.JobCollab
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:             uuid.New().String(),
		StartupID:      req.StartupID,
		PostedBy:       posterID,
		Title:          req.Title,
		Description:    req.Description,
		SkillsRequired: req.SkillsRequired,
		JobType:        jobType,
		Location:       req.Location,
		ExpiresAt:      req.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.jobs.InsertOne(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobs returns open postings, featured first. Expired postings are
// filtered out.
func (s *MongoStartupService) ListJobs(ctx context.Context) ([]models.Job, error) {
	now := time.Now().UTC()
	filter := bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": nil},
		bson.M{"expires_at": bson.M{"$gt": now}},
	}}

	cur, err := s.jobs.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "is_featured", Value: -1},
		{Key: "created_at", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Job, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
