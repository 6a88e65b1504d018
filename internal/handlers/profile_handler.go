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

type ProfileHandler struct {
	profileService *services.MongoProfileService
	userService    *services.MongoUserService
}

func NewProfileHandler(profileService *services.MongoProfileService, userService *services.MongoUserService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		userService:    userService,
	}
}

// Me returns the caller's merged user+profile view, including trust fields.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	user, err := h.userService.FindByID(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		return
	}

	// Ensure self-heals accounts that predate automatic profile creation.
	profile, err := h.profileService.Ensure(ctx, userID)
	if err != nil {
		log.Printf("[GetMyProfile] Profile lookup failed for %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.ProfileView{
		ID:                user.ID,
		Email:             user.Email,
		Role:              user.Role,
		Status:            user.Status,
		TrustTier:         user.TrustTier,
		AuthenticityScore: user.AuthenticityScore,
		FullName:          profile.FullName,
		Bio:               profile.Bio,
		Skills:            profile.Skills,
		IsProfileComplete: profile.IsComplete(),
	}))
}

// GetByUserID returns the public subset of another user's profile.
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	user, err := h.userService.FindByID(ctx, targetID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		return
	}

	profile, err := h.profileService.GetByUserID(ctx, targetID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.ProfileView{
		ID:                user.ID,
		Role:              user.Role,
		TrustTier:         user.TrustTier,
		AuthenticityScore: user.AuthenticityScore,
		FullName:          profile.FullName,
		Bio:               profile.Bio,
		Skills:            profile.Skills,
		IsProfileComplete: profile.IsComplete(),
	}))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	profile, err := h.profileService.Update(ctx, userID, &req)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		log.Printf("[UpdateProfile] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}
