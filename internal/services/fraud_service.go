package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Gampa15/foundin-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// FraudReportStore persists the immutable audit record written per flag.
type FraudReportStore interface {
	Insert(ctx context.Context, report *models.FraudReport) error
}

// FlagRequest carries one suspicious-behavior observation.
type FlagRequest struct {
	UserID     string
	Reason     string
	Severity   string // defaults to LOW
	Source     string // defaults to SYSTEM
	ReportedBy string // empty for system-detected flags
}

// FraudService records fraud flags and applies the escalation policy:
// every flag costs the immediate penalty; reaching the critical threshold
// additionally costs the confirmed-fraud penalty and suspends the account.
type FraudService struct {
	users   UserStore
	reports FraudReportStore
	scores  *AuthenticityService
	cfg     EscalationConfig
	now     func() time.Time
}

func NewFraudService(users UserStore, reports FraudReportStore, scores *AuthenticityService, cfg EscalationConfig) *FraudService {
	return &FraudService{
		users:   users,
		reports: reports,
		scores:  scores,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FlagUser records one violation against a user. A missing user makes the
// whole call a no-op; detection must never fail the triggering request.
// Any persistence failure is returned unwrapped for the caller's generic
// error handling.
//
// Side effects, in order: fraud-flag counter increment (atomic, returns the
// post-increment count), immutable report record, immediate score penalty,
// then escalation if the counter has reached the critical threshold.
func (s *FraudService) FlagUser(ctx context.Context, req FlagRequest) error {
	if req.Severity == "" {
		req.Severity = models.SeverityLow
	}
	if req.Source == "" {
		req.Source = models.SourceSystem
	}

	user, err := s.users.IncrementFraudFlags(ctx, req.UserID, s.now())
	if err != nil {
		if err == ErrUserNotFound {
			return nil
		}
		return err
	}

	report := &models.FraudReport{
		ID:           uuid.New().String(),
		ReportedUser: req.UserID,
		ReportedBy:   req.ReportedBy,
		Reason:       req.Reason,
		Severity:     req.Severity,
		Source:       req.Source,
		CreatedAt:    s.now(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return err
	}

	if err := s.scores.AdjustScore(ctx, req.UserID, s.cfg.SpamActivityDelta, req.Reason); err != nil {
		return err
	}

	return s.escalate(ctx, user)
}

// ConfirmFraud is the admin moderation path: record a high-severity flag,
// then apply the confirmed-fraud penalty and suspension immediately, without
// waiting for the flag counter to reach the critical threshold. Safe to call
// on an already-suspended account.
func (s *FraudService) ConfirmFraud(ctx context.Context, userID, reason, confirmedBy string) error {
	if err := s.FlagUser(ctx, FlagRequest{
		UserID:     userID,
		Reason:     reason,
		Severity:   models.SeverityHigh,
		Source:     models.SourceUser,
		ReportedBy: confirmedBy,
	}); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == ErrUserNotFound {
			return nil
		}
		return err
	}
	if user.Status == models.StatusSuspended {
		return nil
	}

	if err := s.scores.AdjustScore(ctx, userID, s.cfg.FraudConfirmedDelta, "Fraud confirmed"); err != nil {
		return err
	}
	if err := s.users.Suspend(ctx, userID); err != nil {
		return err
	}

	log.Printf("[ConfirmFraud] user=%s suspended by admin action", userID)
	return nil
}

// escalate inspects the post-increment flag count. The critical action is
// applied once per account: an already-suspended user takes no further
// penalty beyond the per-flag one.
func (s *FraudService) escalate(ctx context.Context, user *models.User) error {
	if user.FraudFlags < s.cfg.CriticalThreshold {
		if user.FraudFlags >= s.cfg.WarningThreshold {
			log.Printf("[FlagUser] user=%s flags=%d past warning threshold", user.ID, user.FraudFlags)
		}
		return nil
	}

	if user.Status == models.StatusSuspended {
		log.Printf("[FlagUser] user=%s flags=%d already suspended", user.ID, user.FraudFlags)
		return nil
	}

	if err := s.scores.AdjustScore(ctx, user.ID, s.cfg.FraudConfirmedDelta, "Fraud confirmed"); err != nil {
		return err
	}
	if err := s.users.Suspend(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("[FlagUser] user=%s flags=%d suspended", user.ID, user.FraudFlags)
	return nil
}
