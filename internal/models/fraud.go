package models

import "time"

// Fraud severities.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Fraud report sources.
const (
	SourceSystem = "SYSTEM"
	SourceUser   = "USER"
)

// FraudReport is the immutable audit record written once per detected
// violation or manual user report. Only Resolved may change afterwards,
// via the moderation workflow.
type FraudReport struct {
	ID           string    `json:"id" bson:"_id"`
	ReportedUser string    `json:"reported_user" bson:"reported_user"`
	ReportedBy   string    `json:"reported_by,omitempty" bson:"reported_by,omitempty"` // empty = system-detected
	Reason       string    `json:"reason" bson:"reason"`
	Severity     string    `json:"severity" bson:"severity"`
	Source       string    `json:"source" bson:"source"`
	Resolved     bool      `json:"resolved" bson:"resolved"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// FraudFlag records a moderation action taken by an admin against a user.
type FraudFlag struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Reason      string    `json:"reason" bson:"reason"`
	Severity    string    `json:"severity" bson:"severity"`
	ActionTaken string    `json:"action_taken" bson:"action_taken"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Report statuses.
const (
	ReportOpen      = "OPEN"
	ReportReviewed  = "REVIEWED"
	ReportDismissed = "DISMISSED"
)

// Report is a user-filed complaint against a user or an idea, reviewed by
// admins before any fraud consequence is applied.
type Report struct {
	ID           string    `json:"id" bson:"_id"`
	ReportedUser string    `json:"reported_user,omitempty" bson:"reported_user,omitempty"`
	ReportedIdea string    `json:"reported_idea,omitempty" bson:"reported_idea,omitempty"`
	ReportedBy   string    `json:"reported_by" bson:"reported_by"`
	Reason       string    `json:"reason" bson:"reason"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateReportRequest struct {
	ReportedUser string `json:"reported_user"`
	ReportedIdea string `json:"reported_idea"`
	Reason       string `json:"reason"`
}

func (r *CreateReportRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Reason == "" {
		errors["reason"] = "Reason is required"
	}
	if r.ReportedUser == "" && r.ReportedIdea == "" {
		errors["reported_user"] = "A reported user or idea is required"
	}

	return errors
}

type ReportUserRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

func (r *ReportUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.UserID == "" {
		errors["user_id"] = "User is required"
	}
	if r.Reason == "" {
		errors["reason"] = "Reason is required"
	}

	return errors
}

type ReportActionRequest struct {
	Severity string `json:"severity"`
	Action   string `json:"action"`
}
