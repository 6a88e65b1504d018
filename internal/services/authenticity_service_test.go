package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gampa15/foundin-backend/internal/models"
)

func TestTierForScore(t *testing.T) {
	cases := []struct {
		score int
		tier  string
	}{
		{0, models.TierBronze},
		{39, models.TierBronze},
		{40, models.TierSilver},
		{59, models.TierSilver},
		{60, models.TierGold},
		{79, models.TierGold},
		{80, models.TierPlatinum},
		{100, models.TierPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.tier, TierForScore(tc.score), "score %d", tc.score)
	}
}

func TestAdjustScoreClampsAtZero(t *testing.T) {
	u := activeUser("u1")
	u.AuthenticityScore = 3
	users := newFakeUserStore(u)
	svc := NewAuthenticityService(users)

	require.NoError(t, svc.AdjustScore(context.Background(), "u1", -20, "Fraud confirmed"))

	got, _ := users.FindByID(context.Background(), "u1")
	assert.Equal(t, 0, got.AuthenticityScore)
	assert.Equal(t, models.TierBronze, got.TrustTier)
}

func TestAdjustScoreClampsAtHundred(t *testing.T) {
	u := activeUser("u1")
	u.AuthenticityScore = 95
	users := newFakeUserStore(u)
	svc := NewAuthenticityService(users)

	require.NoError(t, svc.AdjustScore(context.Background(), "u1", 15, "Verified milestone"))

	got, _ := users.FindByID(context.Background(), "u1")
	assert.Equal(t, 100, got.AuthenticityScore)
	assert.Equal(t, models.TierPlatinum, got.TrustTier)
}

func TestAdjustScoreNegativeFlagPerNegativeDelta(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	svc := NewAuthenticityService(users)

	require.NoError(t, svc.AdjustScore(context.Background(), "u1", -1, "minor"))
	require.NoError(t, svc.AdjustScore(context.Background(), "u1", -20, "major"))
	require.NoError(t, svc.AdjustScore(context.Background(), "u1", 10, "recovery"))
	require.NoError(t, svc.AdjustScore(context.Background(), "u1", 0, "noop"))

	got, _ := users.FindByID(context.Background(), "u1")
	// one per negative delta regardless of magnitude; never for zero/positive
	assert.Equal(t, 2, got.NegativeFlags)
	assert.Equal(t, 39, got.AuthenticityScore)
}

func TestAdjustScoreMissingUserIsNoOp(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthenticityService(users)

	assert.NoError(t, svc.AdjustScore(context.Background(), "ghost", -5, "spam"))
}

func TestAdjustScorePersistenceErrorPropagates(t *testing.T) {
	users := newFakeUserStore(activeUser("u1"))
	users.applyScoreErr = errors.New("write failed")
	svc := NewAuthenticityService(users)

	assert.Error(t, svc.AdjustScore(context.Background(), "u1", -5, "spam"))
}
