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

type VerificationHandler struct {
	verificationService *services.MongoVerificationService
}

func NewVerificationHandler(verificationService *services.MongoVerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func (h *VerificationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.ApplyVerificationRequest
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

	verification, err := h.verificationService.Apply(ctx, userID, &req)
	if err != nil {
		log.Printf("[ApplyVerification] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit verification request"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(verification))
}

func (h *VerificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	verifications, err := h.verificationService.ListMine(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list verification requests"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(verifications))
}

// ListPending is the admin review queue.
func (h *VerificationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	verifications, err := h.verificationService.ListPending(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list verification requests"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(verifications))
}

// Review approves or rejects a verification request. Admin-only. Approval
// stamps the verified level onto the startup.
func (h *VerificationHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.GetUserID(r.Context())
	verificationID := chi.URLParam(r, "verificationId")

	var req models.ReviewVerificationRequest
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

	verification, err := h.verificationService.Review(ctx, verificationID, reviewerID, &req)
	if err != nil {
		if err == services.ErrVerificationNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Verification request not found"))
			return
		}
		log.Printf("[ReviewVerification] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to review verification request"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(verification))
}
