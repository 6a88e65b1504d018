package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

// fakeAdService returns a canned recent-submission count so tests can steer
// the rapid-submission detection without a clock.
type fakeAdService struct {
	recentCount int64
	countErr    error
	created     []*models.Ad
}

func (s *fakeAdService) Create(ctx context.Context, userID string, req *models.CreateAdRequest) (*models.Ad, error) {
	ad := &models.Ad{
		ID:           "ad-1",
		Title:        req.Title,
		Description:  req.Description,
		BusinessName: req.BusinessName,
		CreatedBy:    userID,
		Status:       models.AdPending,
	}
	s.created = append(s.created, ad)
	return ad, nil
}

func (s *fakeAdService) CountRecentByUser(ctx context.Context, userID string, since time.Time) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.recentCount, nil
}

func (s *fakeAdService) ListApproved(ctx context.Context) ([]models.Ad, error) {
	return nil, nil
}

func (s *fakeAdService) Review(ctx context.Context, adID string, req *models.ReviewAdRequest) (*models.Ad, error) {
	return nil, errors.New("not implemented")
}

type fakeFlagger struct {
	flags []services.FlagRequest
	err   error
}

func (f *fakeFlagger) FlagUser(ctx context.Context, req services.FlagRequest) error {
	f.flags = append(f.flags, req)
	return f.err
}

func authedRequest(t *testing.T, method, target string, body interface{}, userID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	return req
}

func TestCreateAdFlagsRapidSubmissions(t *testing.T) {
	rules := services.DefaultRules()
	ads := &fakeAdService{recentCount: int64(rules.RapidAdSubmissions.Limit)}
	flagger := &fakeFlagger{}
	h := NewAdHandler(ads, flagger, rules)

	req := authedRequest(t, http.MethodPost, "/api/ads", models.CreateAdRequest{
		Title:        "Launch promo",
		Description:  "Half off onboarding",
		BusinessName: "Acme",
	}, "user-1")
	rr := httptest.NewRecorder()
	h.CreateAd(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, flagger.flags, 1)
	assert.Equal(t, "user-1", flagger.flags[0].UserID)
	assert.Equal(t, rules.RapidAdSubmissions.Reason, flagger.flags[0].Reason)
	assert.Equal(t, models.SeverityMedium, flagger.flags[0].Severity)
	assert.Len(t, ads.created, 1)
}

func TestCreateAdBelowLimitNoFlag(t *testing.T) {
	rules := services.DefaultRules()
	ads := &fakeAdService{recentCount: int64(rules.RapidAdSubmissions.Limit) - 1}
	flagger := &fakeFlagger{}
	h := NewAdHandler(ads, flagger, rules)

	req := authedRequest(t, http.MethodPost, "/api/ads", models.CreateAdRequest{
		Title:        "Launch promo",
		Description:  "Half off onboarding",
		BusinessName: "Acme",
	}, "user-1")
	rr := httptest.NewRecorder()
	h.CreateAd(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, flagger.flags)
}

func TestCreateAdSucceedsWhenFlagFails(t *testing.T) {
	rules := services.DefaultRules()
	ads := &fakeAdService{recentCount: 10}
	flagger := &fakeFlagger{err: errors.New("mongo down")}
	h := NewAdHandler(ads, flagger, rules)

	req := authedRequest(t, http.MethodPost, "/api/ads", models.CreateAdRequest{
		Title:        "Launch promo",
		Description:  "Half off onboarding",
		BusinessName: "Acme",
	}, "user-1")
	rr := httptest.NewRecorder()
	h.CreateAd(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, ads.created, 1)
}

func TestCreateAdSucceedsWhenCountFails(t *testing.T) {
	rules := services.DefaultRules()
	ads := &fakeAdService{countErr: errors.New("mongo down")}
	flagger := &fakeFlagger{}
	h := NewAdHandler(ads, flagger, rules)

	req := authedRequest(t, http.MethodPost, "/api/ads", models.CreateAdRequest{
		Title:        "Launch promo",
		Description:  "Half off onboarding",
		BusinessName: "Acme",
	}, "user-1")
	rr := httptest.NewRecorder()
	h.CreateAd(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, flagger.flags)
}

func TestCreateAdValidation(t *testing.T) {
	ads := &fakeAdService{}
	h := NewAdHandler(ads, &fakeFlagger{}, services.DefaultRules())

	req := authedRequest(t, http.MethodPost, "/api/ads", models.CreateAdRequest{Title: "no body"}, "user-1")
	rr := httptest.NewRecorder()
	h.CreateAd(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, ads.created)
}
