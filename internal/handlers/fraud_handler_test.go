package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

type fakeModerationStore struct {
	reports  map[string]*models.Report
	reviewed []string
	actions  []models.FraudFlag
}

func (s *fakeModerationStore) CreateReport(ctx context.Context, reportedBy string, req *models.CreateReportRequest) (*models.Report, error) {
	return nil, nil
}

func (s *fakeModerationStore) ListReports(ctx context.Context) ([]models.Report, error) {
	return nil, nil
}

func (s *fakeModerationStore) ListFraudReports(ctx context.Context, userID string, limit int64) ([]models.FraudReport, error) {
	return nil, nil
}

func (s *fakeModerationStore) GetReport(ctx context.Context, id string) (*models.Report, error) {
	r, ok := s.reports[id]
	if !ok {
		return nil, services.ErrReportNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeModerationStore) MarkReportReviewed(ctx context.Context, id string) error {
	s.reviewed = append(s.reviewed, id)
	return nil
}

func (s *fakeModerationStore) RecordAction(ctx context.Context, userID, reason, severity, action string) (*models.FraudFlag, error) {
	flag := models.FraudFlag{ID: "flag-1", UserID: userID, Reason: reason, Severity: severity, ActionTaken: action}
	s.actions = append(s.actions, flag)
	return &flag, nil
}

func newModerationFixture(reported *models.User) (*FraudHandler, *fakeModerationStore, *memUserStore) {
	rules := services.DefaultRules()
	users := &memUserStore{users: map[string]*models.User{reported.ID: reported}}
	fraud := services.NewFraudService(users, &memReportStore{}, services.NewAuthenticityService(users), services.DefaultEscalation())
	store := &fakeModerationStore{reports: map[string]*models.Report{
		"rep-1": {ID: "rep-1", ReportedUser: reported.ID, ReportedBy: "user-9", Reason: "Fake traction numbers", Status: models.ReportOpen},
	}}
	return NewFraudHandler(store, fraud, rules), store, users
}

func takeActionRequest(t *testing.T, adminID, reportID string, body models.ReportActionRequest) *http.Request {
	t.Helper()
	req := authedRequest(t, http.MethodPut, "/api/fraud/reports/"+reportID+"/action", body, adminID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("reportId", reportID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTakeActionHighSeveritySuspends(t *testing.T) {
	reported := &models.User{
		ID:                "user-2",
		Status:            models.StatusActive,
		AuthenticityScore: models.DefaultAuthenticityScore,
		TrustTier:         models.TierSilver,
	}
	h, store, users := newModerationFixture(reported)

	rr := httptest.NewRecorder()
	h.TakeAction(rr, takeActionRequest(t, "admin-1", "rep-1", models.ReportActionRequest{
		Severity: models.SeverityHigh,
		Action:   "SUSPEND",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"rep-1"}, store.reviewed)
	require.Len(t, store.actions, 1)
	assert.Equal(t, models.SeverityHigh, store.actions[0].Severity)

	u := users.users["user-2"]
	assert.Equal(t, models.StatusSuspended, u.Status)
	assert.Equal(t, 25, u.AuthenticityScore) // 50 - 5 (flag) - 20 (confirmed)
	assert.Equal(t, models.TierBronze, u.TrustTier)
}

func TestTakeActionMediumSeverityNoSuspension(t *testing.T) {
	reported := &models.User{
		ID:                "user-2",
		Status:            models.StatusActive,
		AuthenticityScore: models.DefaultAuthenticityScore,
		TrustTier:         models.TierSilver,
	}
	h, store, users := newModerationFixture(reported)

	rr := httptest.NewRecorder()
	h.TakeAction(rr, takeActionRequest(t, "admin-1", "rep-1", models.ReportActionRequest{
		Severity: models.SeverityMedium,
		Action:   "WARN",
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.actions, 1)
	assert.Equal(t, models.StatusActive, users.users["user-2"].Status)
	assert.Equal(t, models.DefaultAuthenticityScore, users.users["user-2"].AuthenticityScore)
}

func TestTakeActionUnknownReport(t *testing.T) {
	h, _, _ := newModerationFixture(&models.User{ID: "user-2", Status: models.StatusActive})

	rr := httptest.NewRecorder()
	h.TakeAction(rr, takeActionRequest(t, "admin-1", "rep-404", models.ReportActionRequest{Action: "WARN"}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportUserRejectsSelfReport(t *testing.T) {
	h, _, _ := newModerationFixture(&models.User{ID: "user-1", Status: models.StatusActive})

	req := authedRequest(t, http.MethodPost, "/api/fraud/report-user",
		models.ReportUserRequest{UserID: "user-1", Reason: "spam"}, "user-1")
	rr := httptest.NewRecorder()
	h.ReportUser(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
