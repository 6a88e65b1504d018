package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

// AdService is the slice of ad persistence the handler needs.
type AdService interface {
	Create(ctx context.Context, userID string, req *models.CreateAdRequest) (*models.Ad, error)
	CountRecentByUser(ctx context.Context, userID string, since time.Time) (int64, error)
	ListApproved(ctx context.Context) ([]models.Ad, error)
	Review(ctx context.Context, adID string, req *models.ReviewAdRequest) (*models.Ad, error)
}

// UserFlagger records fraud flags. Call sites treat it as advisory: a flag
// failure never blocks the triggering request.
type UserFlagger interface {
	FlagUser(ctx context.Context, req services.FlagRequest) error
}

type AdHandler struct {
	adService    AdService
	fraudService UserFlagger
	rules        services.RuleCatalog
}

func NewAdHandler(adService AdService, fraudService UserFlagger, rules services.RuleCatalog) *AdHandler {
	return &AdHandler{
		adService:    adService,
		fraudService: fraudService,
		rules:        rules,
	}
}

func (h *AdHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateAdRequest
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

	h.probeRapidSubmissions(ctx, userID)

	ad, err := h.adService.Create(ctx, userID, &req)
	if err != nil {
		log.Printf("[CreateAd] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create ad"))
		return
	}

	log.Printf("[CreateAd] Ad created: %s by %s", ad.ID, userID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(ad))
}

// probeRapidSubmissions flags the user when recent submissions cross the
// rapid-ad rule. Detection is advisory: failure here never blocks the ad.
func (h *AdHandler) probeRapidSubmissions(ctx context.Context, userID string) {
	rule := h.rules.RapidAdSubmissions
	if h.fraudService == nil || !rule.Countable() {
		return
	}

	count, err := h.adService.CountRecentByUser(ctx, userID, rule.WindowStart(time.Now().UTC()))
	if err != nil {
		log.Printf("[CreateAd] Probe count failed for %s: %v", userID, err)
		return
	}
	if !rule.Exceeded(count) {
		return
	}

	if err := h.fraudService.FlagUser(ctx, services.FlagRequest{
		UserID:   userID,
		Reason:   rule.Reason,
		Severity: rule.Severity,
	}); err != nil {
		log.Printf("[CreateAd] Flag failed for %s: %v", userID, err)
	}
}

func (h *AdHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ads, err := h.adService.ListApproved(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list ads"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ads))
}

// ReviewAd is admin-only, enforced by the router.
func (h *AdHandler) ReviewAd(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "adId")

	var req models.ReviewAdRequest
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

	ad, err := h.adService.Review(ctx, adID, &req)
	if err != nil {
		if err == services.ErrAdNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Ad not found"))
			return
		}
		log.Printf("[ReviewAd] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to review ad"))
		return
	}

	log.Printf("[ReviewAd] Ad %s -> %s", ad.ID, ad.Status)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(ad))
}
