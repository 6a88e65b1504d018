package handlers

import (
	"net/http"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

type ScoreHandler struct {
	userService *services.MongoUserService
}

func NewScoreHandler(userService *services.MongoUserService) *ScoreHandler {
	return &ScoreHandler{userService: userService}
}

// Me returns the caller's authenticity score and trust tier.
func (h *ScoreHandler) Me(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.ScoreResponse{
		AuthenticityScore: user.AuthenticityScore,
		TrustTier:         user.TrustTier,
	}))
}
