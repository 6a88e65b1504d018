package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

// ModerationStore holds reports and the fraud flag history.
type ModerationStore interface {
	CreateReport(ctx context.Context, reportedBy string, req *models.CreateReportRequest) (*models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	ListFraudReports(ctx context.Context, userID string, limit int64) ([]models.FraudReport, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	MarkReportReviewed(ctx context.Context, id string) error
	RecordAction(ctx context.Context, userID, reason, severity, action string) (*models.FraudFlag, error)
}

// FraudConfirmer extends flagging with the admin-confirmed escalation path.
type FraudConfirmer interface {
	UserFlagger
	ConfirmFraud(ctx context.Context, userID, reason, confirmedBy string) error
}

type FraudHandler struct {
	fraudStore   ModerationStore
	fraudService FraudConfirmer
	rules        services.RuleCatalog
}

func NewFraudHandler(fraudStore ModerationStore, fraudService FraudConfirmer, rules services.RuleCatalog) *FraudHandler {
	return &FraudHandler{
		fraudStore:   fraudStore,
		fraudService: fraudService,
		rules:        rules,
	}
}

// CreateReport files a moderation report for admin review. No score or
// account consequence until an admin acts on it.
func (h *FraudHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateReportRequest
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

	report, err := h.fraudStore.CreateReport(ctx, userID, &req)
	if err != nil {
		log.Printf("[CreateReport] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create report"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(report))
}

// ReportUser records a manual fraud flag against another user. Unlike
// CreateReport, this feeds the escalation counter directly.
func (h *FraudHandler) ReportUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.ReportUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if req.UserID == userID {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Cannot report yourself"))
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	err := h.fraudService.FlagUser(ctx, services.FlagRequest{
		UserID:     req.UserID,
		Reason:     req.Reason,
		Severity:   models.SeverityMedium,
		Source:     models.SourceUser,
		ReportedBy: userID,
	})
	if err != nil {
		log.Printf("[ReportUser] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to report user"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]string{"message": "Report recorded"}))
}

// ListReports returns the open moderation queue. Admin-only.
func (h *FraudHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	reports, err := h.fraudStore.ListReports(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list reports"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(reports))
}

// ListFraudReports returns the audit trail of recorded flags, optionally
// filtered by user. Admin-only.
func (h *FraudHandler) ListFraudReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := int64(100)
	if raw := query.Get("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	reports, err := h.fraudStore.ListFraudReports(ctx, query.Get("user_id"), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list fraud reports"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(reports))
}

// TakeAction resolves a moderation report: marks it reviewed, records the
// action, and on HIGH severity confirms fraud (penalty + suspension).
// Admin-only.
func (h *FraudHandler) TakeAction(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())
	reportID := chi.URLParam(r, "reportId")

	var req models.ReportActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.Action == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"action": "Action is required"}))
		return
	}
	if req.Severity == "" {
		req.Severity = h.rules.FakeClaims.Severity
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	report, err := h.fraudStore.GetReport(ctx, reportID)
	if err != nil {
		if err == services.ErrReportNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get report"))
		return
	}

	if err := h.fraudStore.MarkReportReviewed(ctx, reportID); err != nil {
		log.Printf("[TakeAction] Mark reviewed failed for %s: %v", reportID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update report"))
		return
	}

	if report.ReportedUser == "" {
		// Idea-only report: nothing further to apply against an account.
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Report reviewed"}))
		return
	}

	flag, err := h.fraudStore.RecordAction(ctx, report.ReportedUser, report.Reason, req.Severity, req.Action)
	if err != nil {
		log.Printf("[TakeAction] Record action failed for %s: %v", reportID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record action"))
		return
	}

	if req.Severity == models.SeverityHigh {
		if err := h.fraudService.ConfirmFraud(ctx, report.ReportedUser, h.rules.FakeClaims.Reason, adminID); err != nil {
			log.Printf("[TakeAction] Confirm fraud failed for %s: %v", report.ReportedUser, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to apply action"))
			return
		}
	}

	log.Printf("[TakeAction] Report %s resolved action=%s severity=%s by %s", reportID, req.Action, req.Severity, adminID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(flag))
}
