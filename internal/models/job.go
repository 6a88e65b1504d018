package models

import "time"

// Job types.
const (
	JobFullTime = "FULL_TIME"
	JobPartTime = "PART_TIME"
	JobContract = "CONTRACT"
	JobCollab   = "COLLAB"
)

type Job struct {
	ID             string     `json:"id" bson:"_id"`
	StartupID      string     `json:"startup_id" bson:"startup_id"`
	PostedBy       string     `json:"posted_by" bson:"posted_by"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description" bson:"description"`
	SkillsRequired []string   `json:"skills_required,omitempty" bson:"skills_required,omitempty"`
	JobType        string     `json:"job_type" bson:"job_type"`
	Location       string     `json:"location,omitempty" bson:"location,omitempty"`
	IsFeatured     bool       `json:"is_featured" bson:"is_featured"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}

type CreateJobRequest struct {
	StartupID      string     `json:"startup_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	SkillsRequired []string   `json:"skills_required"`
	JobType        string     `json:"job_type"`
	Location       string     `json:"location"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

func (r *CreateJobRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.StartupID == "" {
		errors["startup_id"] = "Startup is required"
	}
	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}

	return errors
}
