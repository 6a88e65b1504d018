package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Gampa15/foundin-backend/internal/config"
	"github.com/Gampa15/foundin-backend/internal/handlers"
	appMiddleware "github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/services"
	"github.com/Gampa15/foundin-backend/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Initialize services with persistent storage
	userService, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}
	profileService, err := services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize profile service: %v", err)
	}
	startupService, err := services.NewMongoStartupService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize startup service: %v", err)
	}
	adService, err := services.NewMongoAdService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize ad service: %v", err)
	}
	messagingService, err := services.NewMongoMessagingService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize messaging service: %v", err)
	}
	fraudStore, err := services.NewMongoFraudService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize fraud store: %v", err)
	}
	verificationService, err := services.NewMongoVerificationService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize verification service: %v", err)
	}
	uploadRecords, err := services.NewMongoUploadService(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize upload store: %v", err)
	}
	uploadService := services.NewUploadService(cfg.UploadDir, uploadRecords)

	// Fraud scoring pipeline
	rules := services.DefaultRules()
	authenticityService := services.NewAuthenticityService(userService)
	fraudService := services.NewFraudService(userService, fraudStore, authenticityService, services.DefaultEscalation())

	// Realtime hub
	hub := ws.NewHub(cfg.JWTSecret)
	hub.AttachMessages(messagingService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, profileService, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileService, userService)
	startupHandler := handlers.NewStartupHandler(startupService)
	adHandler := handlers.NewAdHandler(adService, fraudService, rules)
	messagingHandler := handlers.NewMessagingHandler(messagingService, fraudService, rules, hub)
	fraudHandler := handlers.NewFraudHandler(fraudStore, fraudService, rules)
	scoreHandler := handlers.NewScoreHandler(userService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.MaxUploadSizeMB)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/ideas", startupHandler.ListPublicIdeas)
		r.Get("/jobs", startupHandler.ListJobs)
		r.Get("/ads", adHandler.ListAds)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Get("/auth/me", authHandler.Me)

			// Profiles
			r.Route("/profile", func(r chi.Router) {
				r.Get("/me", profileHandler.Me)
				r.Put("/me", profileHandler.Update)
				r.Get("/{userId}", profileHandler.GetByUserID)
			})

			// Startups, ideas, jobs
			r.Route("/startups", func(r chi.Router) {
				r.Post("/", startupHandler.CreateStartup)
				r.Get("/mine", startupHandler.ListMyStartups)
				r.Get("/{startupId}", startupHandler.GetStartup)
				r.Get("/{startupId}/ideas", startupHandler.ListIdeasByStartup)
			})
			r.Route("/ideas", func(r chi.Router) {
				r.Post("/", startupHandler.CreateIdea)
				r.Get("/mine", startupHandler.ListMyIdeas)
				r.Post("/{ideaId}/like", startupHandler.LikeIdea)
			})
			r.Post("/jobs", startupHandler.CreateJob)

			// Ads
			r.Post("/ads", adHandler.CreateAd)

			// Messaging
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", messagingHandler.CreateConversation)
				r.Get("/", messagingHandler.ListConversations)

				r.Route("/{conversationId}", func(r chi.Router) {
					r.Get("/", messagingHandler.GetConversation)
					r.Get("/messages", messagingHandler.ListMessages)
					r.Post("/messages", messagingHandler.SendMessage)
					r.Post("/seen", messagingHandler.MarkSeen)
				})
			})

			// Fraud and trust
			r.Post("/fraud/report", fraudHandler.CreateReport)
			r.Post("/fraud/report-user", fraudHandler.ReportUser)
			r.Get("/score/me", scoreHandler.Me)

			// Verification
			r.Route("/verification", func(r chi.Router) {
				r.Post("/", verificationHandler.Apply)
				r.Get("/mine", verificationHandler.ListMine)
			})

			// Media upload
			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/upload/{fileId}", uploadHandler.Delete)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAdmin(userService))

				r.Get("/fraud/reports", fraudHandler.ListReports)
				r.Get("/fraud/flags", fraudHandler.ListFraudReports)
				r.Put("/fraud/reports/{reportId}/action", fraudHandler.TakeAction)
				r.Put("/ads/{adId}/review", adHandler.ReviewAd)
				r.Get("/verification/pending", verificationHandler.ListPending)
				r.Put("/verification/{verificationId}/review", verificationHandler.Review)
			})
		})
	})

	// Realtime
	r.Get("/ws", hub.ServeWS)

	// Serve uploaded files
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	log.Printf("FoundIn API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
