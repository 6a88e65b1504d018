package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

type StartupHandler struct {
	startupService *services.MongoStartupService
}

func NewStartupHandler(startupService *services.MongoStartupService) *StartupHandler {
	return &StartupHandler{startupService: startupService}
}

func (h *StartupHandler) CreateStartup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateStartupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	startup, err := h.startupService.CreateStartup(ctx, userID, &req)
	if err != nil {
		if err == services.ErrProfileRequired {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Complete your profile before creating a startup"))
			return
		}
		log.Printf("[CreateStartup] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create startup"))
		return
	}

	log.Printf("[CreateStartup] Startup created: %s by %s", startup.ID, userID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(startup))
}

func (h *StartupHandler) GetStartup(w http.ResponseWriter, r *http.Request) {
	startupID := chi.URLParam(r, "startupId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	startup, err := h.startupService.GetStartup(ctx, startupID)
	if err != nil {
		if err == services.ErrStartupNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Startup not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get startup"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(startup))
}

func (h *StartupHandler) ListMyStartups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	startups, err := h.startupService.ListMyStartups(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list startups"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(startups))
}

func (h *StartupHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	idea, err := h.startupService.CreateIdea(ctx, userID, &req)
	if err != nil {
		if err == services.ErrStartupNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Startup not found"))
			return
		}
		if err == services.ErrNotOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to post ideas for this startup"))
			return
		}
		log.Printf("[CreateIdea] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create idea"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(idea))
}

func (h *StartupHandler) ListMyIdeas(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ideas, err := h.startupService.ListMyIdeas(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list ideas"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ideas))
}

// ListPublicIdeas is the discovery feed: public, non-draft ideas only.
func (h *StartupHandler) ListPublicIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ideas, err := h.startupService.ListPublicIdeas(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list ideas"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ideas))
}

func (h *StartupHandler) ListIdeasByStartup(w http.ResponseWriter, r *http.Request) {
	startupID := chi.URLParam(r, "startupId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ideas, err := h.startupService.ListIdeasByStartup(ctx, startupID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list ideas"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ideas))
}

func (h *StartupHandler) LikeIdea(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	ideaID := chi.URLParam(r, "ideaId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	likes, err := h.startupService.LikeIdea(ctx, ideaID, userID)
	if err != nil {
		if err == services.ErrIdeaNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Idea not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to like idea"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int{"likes": likes}))
}

func (h *StartupHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	job, err := h.startupService.CreateJob(ctx, userID, &req)
	if err != nil {
		if err == services.ErrStartupNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Startup not found"))
			return
		}
		if err == services.ErrNotOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to post jobs for this startup"))
			return
		}
		log.Printf("[CreateJob] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create job"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(job))
}

func (h *StartupHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	jobs, err := h.startupService.ListJobs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list jobs"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(jobs))
}
