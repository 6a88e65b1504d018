package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/models"
)

// fakeUserStore keeps users in memory and applies the same single-document
// update semantics the Mongo store guarantees.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	applyScoreErr error
	suspendErr    error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) ApplyScore(ctx context.Context, id string, score int, tier string, negative bool) error {
	if s.applyScoreErr != nil {
		return s.applyScoreErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.AuthenticityScore = score
	u.TrustTier = tier
	if negative {
		u.NegativeFlags++
	}
	return nil
}

func (s *fakeUserStore) IncrementFraudFlags(ctx context.Context, id string, at time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.FraudFlags++
	u.LastFraudAt = &at
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Suspend(ctx context.Context, id string) error {
	if s.suspendErr != nil {
		return s.suspendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Status = models.StatusSuspended
	return nil
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports []*models.FraudReport
	err     error
}

func (s *fakeReportStore) Insert(ctx context.Context, report *models.FraudReport) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

func activeUser(id string) *models.User {
	return &models.User{
		ID:                id,
		Status:            models.StatusActive,
		AuthenticityScore: models.DefaultAuthenticityScore,
		TrustTier:         models.TierSilver,
	}
}

func newTestFraudService(users *fakeUserStore, reports *fakeReportStore) *FraudService {
	return NewFraudService(users, reports, NewAuthenticityService(users), DefaultEscalation())
}

func TestFlagUserFirstFlag(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	err := svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"})
	require.NoError(t, err)

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.FraudFlags)
	assert.Equal(t, 45, u.AuthenticityScore)
	assert.Equal(t, models.TierSilver, u.TrustTier)
	assert.Equal(t, 1, u.NegativeFlags)
	assert.Equal(t, models.StatusActive, u.Status)
	require.NotNil(t, u.LastFraudAt)

	require.Len(t, reports.reports, 1)
	r := reports.reports[0]
	assert.Equal(t, "u1", r.ReportedUser)
	assert.Equal(t, models.SeverityLow, r.Severity)
	assert.Equal(t, models.SourceSystem, r.Source)
	assert.NotEmpty(t, r.ID)
}

func TestFlagUserCriticalThresholdSuspends(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"}))
	}

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, u.FraudFlags)
	assert.Equal(t, models.StatusSuspended, u.Status)
	// 50 - 4*5 - 20
	assert.Equal(t, 10, u.AuthenticityScore)
	assert.Equal(t, models.TierBronze, u.TrustTier)
	// one negative flag per flag penalty plus one for the confirmed penalty
	assert.Equal(t, 5, u.NegativeFlags)
	assert.Len(t, reports.reports, 4)
}

func TestFlagUserPastThresholdDoesNotRepenalize(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	for i := 0; i < 4; i++ {
		require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"}))
	}
	afterBan, _ := users.FindByID(context.Background(), "u1")

	// A fifth flag still records and costs the per-flag penalty, but the
	// confirmed-fraud penalty does not fire again.
	require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"}))

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, u.FraudFlags)
	assert.Equal(t, afterBan.AuthenticityScore-5, u.AuthenticityScore)
	assert.Equal(t, models.StatusSuspended, u.Status)
	assert.Len(t, reports.reports, 5)
}

func TestFlagUserMissingUserIsNoOp(t *testing.T) {
	users := newFakeUserStore()
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	err := svc.FlagUser(context.Background(), FlagRequest{UserID: "ghost", Reason: "Spam messaging detected"})
	require.NoError(t, err)
	assert.Empty(t, reports.reports)
}

func TestFlagUserReportInsertFailurePropagates(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{err: errors.New("write failed")}
	svc := newTestFraudService(users, reports)

	err := svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"})
	require.Error(t, err)
}

func TestFlagUserDefaultsSeverityAndSource(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{
		UserID:     "u1",
		Reason:     "Unverified or misleading claims",
		Severity:   models.SeverityHigh,
		Source:     models.SourceUser,
		ReportedBy: "reporter",
	}))

	require.Len(t, reports.reports, 1)
	assert.Equal(t, models.SeverityHigh, reports.reports[0].Severity)
	assert.Equal(t, models.SourceUser, reports.reports[0].Source)
	assert.Equal(t, "reporter", reports.reports[0].ReportedBy)
}

func TestFlagUserCustomThresholds(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	cfg := EscalationConfig{
		WarningThreshold:    1,
		CriticalThreshold:   2,
		SpamActivityDelta:   -10,
		FraudConfirmedDelta: -30,
	}
	svc := NewFraudService(users, reports, NewAuthenticityService(users), cfg)

	require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"}))
	u, _ := users.FindByID(context.Background(), "u1")
	assert.Equal(t, models.StatusActive, u.Status)

	require.NoError(t, svc.FlagUser(context.Background(), FlagRequest{UserID: "u1", Reason: "Spam messaging detected"}))
	u, _ = users.FindByID(context.Background(), "u1")
	assert.Equal(t, models.StatusSuspended, u.Status)
	// 50 - 10 - 10 - 30
	assert.Equal(t, 0, u.AuthenticityScore)
}

func TestConfirmFraudSuspendsImmediately(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	require.NoError(t, svc.ConfirmFraud(context.Background(), "u1", "Unverified or misleading claims", "admin1"))

	u, err := users.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, u.Status)
	assert.Equal(t, 1, u.FraudFlags)
	// 50 - 5 - 20
	assert.Equal(t, 25, u.AuthenticityScore)
	require.Len(t, reports.reports, 1)
	assert.Equal(t, models.SeverityHigh, reports.reports[0].Severity)
}

func TestConfirmFraudAlreadySuspended(t *testing.T) {
	u := activeUser("u1")
	u.Status = models.StatusSuspended
	users := newFakeUserStore(u)
	reports := &fakeReportStore{}
	svc := newTestFraudService(users, reports)

	require.NoError(t, svc.ConfirmFraud(context.Background(), "u1", "Unverified or misleading claims", "admin1"))

	got, _ := users.FindByID(context.Background(), "u1")
	// only the per-flag penalty applied, no second confirmed penalty
	assert.Equal(t, 45, got.AuthenticityScore)
}
