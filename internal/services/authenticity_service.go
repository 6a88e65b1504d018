package services

import (
	"context"
	"log"
	"time"

	"github.com/Gampa15/foundin-backend/internal/models"
)

// UserStore is the slice of user persistence the trust subsystem relies on.
// Mutating operations must be single atomic document updates.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)

	// ApplyScore persists score, derived tier and, when negative is set, a
	// negative-flag increment as one update.
	ApplyScore(ctx context.Context, id string, score int, tier string, negative bool) error

	// IncrementFraudFlags bumps the fraud-flag counter and last-fraud
	// timestamp in one operation and returns the post-increment document.
	IncrementFraudFlags(ctx context.Context, id string, at time.Time) (*models.User, error)

	// Suspend moves the account to the suspended state.
	Suspend(ctx context.Context, id string) error
}

// AuthenticityService owns the per-user reputation score and its derived
// trust tier.
type AuthenticityService struct {
	users UserStore
}

func NewAuthenticityService(users UserStore) *AuthenticityService {
	return &AuthenticityService{users: users}
}

// TierForScore maps a score to its trust tier, highest threshold first.
func TierForScore(score int) string {
	switch {
	case score >= 80:
		return models.TierPlatinum
	case score >= 60:
		return models.TierGold
	case score >= 40:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AdjustScore applies delta to the user's authenticity score, clamped to
// [0,100], recomputes the tier, and counts one negative flag for any
// negative delta regardless of magnitude. A missing user is a no-op: score
// adjustment is a best-effort side channel of the calling write path.
// Persistence failures are returned to the caller.
func (s *AuthenticityService) AdjustScore(ctx context.Context, userID string, delta int, reason string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == ErrUserNotFound {
			return nil
		}
		return err
	}

	score := clampScore(user.AuthenticityScore + delta)
	tier := TierForScore(score)

	if err := s.users.ApplyScore(ctx, userID, score, tier, delta < 0); err != nil {
		return err
	}

	log.Printf("[AdjustScore] user=%s delta=%d score=%d tier=%s reason=%q", userID, delta, score, tier, reason)
	return nil
}
