package models

import "time"

// Ad statuses.
const (
	AdPending  = "PENDING"
	AdApproved = "APPROVED"
	AdRejected = "REJECTED"
)

// Ad is a promotional listing submitted by a user and gated behind admin
// review before it appears in the public feed.
type Ad struct {
	ID              string    `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	BusinessName    string    `json:"business_name" bson:"business_name"`
	Website         string    `json:"website,omitempty" bson:"website,omitempty"`
	CreatedBy       string    `json:"created_by" bson:"created_by"`
	Status          string    `json:"status" bson:"status"`
	IsFeatured      bool      `json:"is_featured" bson:"is_featured"`
	RejectionReason string    `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateAdRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	BusinessName string `json:"business_name"`
	Website      string `json:"website"`
}

func (r *CreateAdRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}
	if r.BusinessName == "" {
		errors["business_name"] = "Business name is required"
	}

	return errors
}

type ReviewAdRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
	IsFeatured      bool   `json:"is_featured"`
}

func (r *ReviewAdRequest) Validate() map[string]string {
	errors := make(map[string]string)

	switch r.Status {
	case AdApproved, AdRejected, AdPending:
	default:
		errors["status"] = "Invalid status"
	}

	return errors
}
