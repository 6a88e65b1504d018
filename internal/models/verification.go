package models

import "time"

// Verification request statuses.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// Verification is a request to certify a startup at a given level, reviewed
// by an admin. Approval propagates the level to the startup.
type Verification struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	StartupID  string    `json:"startup_id,omitempty" bson:"startup_id,omitempty"`
	Level      string    `json:"level" bson:"level"`
	Documents  []string  `json:"documents,omitempty" bson:"documents,omitempty"`
	Status     string    `json:"status" bson:"status"`
	Remarks    string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	ReviewedBy string    `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

type ApplyVerificationRequest struct {
	StartupID string   `json:"startup_id"`
	Level     string   `json:"level"`
	Documents []string `json:"documents"`
}

func (r *ApplyVerificationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	switch r.Level {
	case VerifiedIdea, VerifiedPrototype, VerifiedMarket:
	default:
		errors["level"] = "Invalid verification level"
	}

	return errors
}

type ReviewVerificationRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func (r *ReviewVerificationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	switch r.Status {
	case VerificationApproved, VerificationRejected:
	default:
		errors["status"] = "Invalid status"
	}

	return errors
}
