package services

import (
	"time"

	"github.com/Gampa15/foundin-backend/internal/models"
)

// Rule describes one detectable behavior pattern. Countable rules are
// evaluated at write-path call sites against the number of prior actions in
// a trailing window; non-countable rules (no limit/window) are labels applied
// by manual or admin judgment only.
type Rule struct {
	Key      string
	Limit    int
	Window   time.Duration
	Reason   string
	Severity string
}

// Countable reports whether the rule is rate-based.
func (r Rule) Countable() bool {
	return r.Limit > 0 && r.Window > 0
}

// WindowStart returns the inclusive lower bound of the rule's sliding window.
func (r Rule) WindowStart(now time.Time) time.Time {
	return now.Add(-r.Window)
}

// Exceeded reports whether count recent actions crosses the rule's limit.
// Non-countable rules never trigger from counting.
func (r Rule) Exceeded(count int64) bool {
	return r.Countable() && count >= int64(r.Limit)
}

// RuleCatalog is the fixed set of detectable behavior patterns. It is
// injected rather than read from globals so tests can tighten the windows.
type RuleCatalog struct {
	RapidAdSubmissions Rule
	MessageSpam        Rule
	FakeClaims         Rule
}

func DefaultRules() RuleCatalog {
	return RuleCatalog{
		RapidAdSubmissions: Rule{
			Key:      "RAPID_AD_SUBMISSIONS",
			Limit:    3,
			Window:   10 * time.Minute,
			Reason:   "Multiple ad submissions in short time",
			Severity: models.SeverityMedium,
		},
		MessageSpam: Rule{
			Key:      "MESSAGE_SPAM",
			Limit:    10,
			Window:   5 * time.Minute,
			Reason:   "Spam messaging detected",
			Severity: models.SeverityLow,
		},
		// Not rate-based: attached to manual reports and admin actions only.
		FakeClaims: Rule{
			Key:      "FAKE_CLAIMS",
			Reason:   "Unverified or misleading claims",
			Severity: models.SeverityHigh,
		},
	}
}

// EscalationConfig holds the thresholds and score deltas the escalation
// policy applies. Deltas are negative.
type EscalationConfig struct {
	// WarningThreshold is reserved: crossing it is logged but carries no
	// score or account consequence.
	WarningThreshold int
	// CriticalThreshold is the cumulative fraud-flag count at which the
	// confirmed-fraud penalty and suspension fire.
	CriticalThreshold int
	// SpamActivityDelta is applied on every recorded flag.
	SpamActivityDelta int
	// FraudConfirmedDelta is applied once, when the counter reaches
	// CriticalThreshold.
	FraudConfirmedDelta int
}

func DefaultEscalation() EscalationConfig {
	return EscalationConfig{
		WarningThreshold:    2,
		CriticalThreshold:   4,
		SpamActivityDelta:   -5,
		FraudConfirmedDelta: -20,
	}
}
