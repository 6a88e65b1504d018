package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/models"
	"github.com/Gampa15/foundin-backend/internal/services"
)

type fakeMessagingService struct {
	recentCount int64
	countErr    error
	sent        []*models.Message
}

func (s *fakeMessagingService) EnsureDirectConversation(ctx context.Context, userID, otherID string) (*models.Conversation, error) {
	return &models.Conversation{ID: "conv-1", Type: models.ConversationDirect, Members: []string{userID, otherID}}, nil
}

func (s *fakeMessagingService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return nil, nil
}

func (s *fakeMessagingService) GetConversation(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	return nil, services.ErrConversationNotFound
}

func (s *fakeMessagingService) SendMessage(ctx context.Context, conversationID, sender, content string) (*models.Message, error) {
	msg := &models.Message{ID: "msg-1", ConversationID: conversationID, Sender: sender, Content: content}
	s.sent = append(s.sent, msg)
	return msg, nil
}

func (s *fakeMessagingService) CountRecentBySender(ctx context.Context, sender string, since time.Time) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.recentCount, nil
}

func (s *fakeMessagingService) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	return nil, nil
}

func (s *fakeMessagingService) MarkSeen(ctx context.Context, conversationID, userID string) ([]string, error) {
	return nil, nil
}

func sendMessageRequest(t *testing.T, userID, conversationID, content string) *http.Request {
	t.Helper()
	req := authedRequest(t, http.MethodPost, "/api/conversations/"+conversationID+"/messages",
		models.SendMessageRequest{Content: content}, userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("conversationId", conversationID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSendMessageFlagsSpam(t *testing.T) {
	rules := services.DefaultRules()
	msgs := &fakeMessagingService{recentCount: int64(rules.MessageSpam.Limit)}
	flagger := &fakeFlagger{}
	h := NewMessagingHandler(msgs, flagger, rules, nil)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, "user-1", "conv-1", "buy now"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, flagger.flags, 1)
	assert.Equal(t, "user-1", flagger.flags[0].UserID)
	assert.Equal(t, rules.MessageSpam.Reason, flagger.flags[0].Reason)
	assert.Equal(t, models.SeverityLow, flagger.flags[0].Severity)
	assert.Len(t, msgs.sent, 1)
}

func TestSendMessageBelowLimitNoFlag(t *testing.T) {
	rules := services.DefaultRules()
	msgs := &fakeMessagingService{recentCount: int64(rules.MessageSpam.Limit) - 1}
	flagger := &fakeFlagger{}
	h := NewMessagingHandler(msgs, flagger, rules, nil)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, "user-1", "conv-1", "hello"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, flagger.flags)
}

func TestSendMessageSucceedsWhenFlagFails(t *testing.T) {
	rules := services.DefaultRules()
	msgs := &fakeMessagingService{recentCount: 50}
	flagger := &fakeFlagger{err: errors.New("mongo down")}
	h := NewMessagingHandler(msgs, flagger, rules, nil)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, "user-1", "conv-1", "buy now"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, msgs.sent, 1)
}

func TestSendMessageSucceedsWhenCountFails(t *testing.T) {
	msgs := &fakeMessagingService{countErr: errors.New("mongo down")}
	flagger := &fakeFlagger{}
	h := NewMessagingHandler(msgs, flagger, services.DefaultRules(), nil)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, "user-1", "conv-1", "hello"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Empty(t, flagger.flags)
}

// memUserStore and memReportStore back the full detection pipeline in
// TestSendMessageSpamAdjustsScore without Mongo.
type memUserStore struct {
	users map[string]*models.User
}

func (s *memUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) ApplyScore(ctx context.Context, id string, score int, tier string, negative bool) error {
	u, ok := s.users[id]
	if !ok {
		return services.ErrUserNotFound
	}
	u.AuthenticityScore = score
	u.TrustTier = tier
	if negative {
		u.NegativeFlags++
	}
	return nil
}

func (s *memUserStore) IncrementFraudFlags(ctx context.Context, id string, at time.Time) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	u.FraudFlags++
	u.LastFraudAt = &at
	copied := *u
	return &copied, nil
}

func (s *memUserStore) Suspend(ctx context.Context, id string) error {
	u, ok := s.users[id]
	if !ok {
		return services.ErrUserNotFound
	}
	u.Status = models.StatusSuspended
	return nil
}

type memReportStore struct {
	reports []*models.FraudReport
}

func (s *memReportStore) Insert(ctx context.Context, report *models.FraudReport) error {
	s.reports = append(s.reports, report)
	return nil
}

// TestSendMessageSpamAdjustsScore runs the spam path end to end: a sender
// over the message limit gets a fraud flag, an audit report, and a score
// penalty, while the message itself still lands.
func TestSendMessageSpamAdjustsScore(t *testing.T) {
	rules := services.DefaultRules()
	users := &memUserStore{users: map[string]*models.User{
		"user-1": {
			ID:                "user-1",
			Status:            models.StatusActive,
			AuthenticityScore: models.DefaultAuthenticityScore,
			TrustTier:         models.TierSilver,
		},
	}}
	reports := &memReportStore{}
	fraud := services.NewFraudService(users, reports, services.NewAuthenticityService(users), services.DefaultEscalation())

	msgs := &fakeMessagingService{recentCount: int64(rules.MessageSpam.Limit)}
	h := NewMessagingHandler(msgs, fraud, rules, nil)

	rr := httptest.NewRecorder()
	h.SendMessage(rr, sendMessageRequest(t, "user-1", "conv-1", "buy now buy now"))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, msgs.sent, 1)

	u := users.users["user-1"]
	assert.Equal(t, 45, u.AuthenticityScore)
	assert.Equal(t, models.TierSilver, u.TrustTier)
	assert.Equal(t, 1, u.FraudFlags)
	assert.Equal(t, models.StatusActive, u.Status)
	require.Len(t, reports.reports, 1)
	assert.Equal(t, rules.MessageSpam.Reason, reports.reports[0].Reason)
	assert.Equal(t, models.SourceSystem, reports.reports[0].Source)
}
