package models

import "time"

// Idea visibility.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// Idea is a pitch posted under a startup. Sector and stage are snapshotted
// from the startup at creation time.
type Idea struct {
	ID          string `json:"id" bson:"_id"`
	StartupID   string `json:"startup_id" bson:"startup_id"`
	Owner       string `json:"owner" bson:"owner"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Visibility  string `json:"visibility" bson:"visibility"`
	Sector      string `json:"sector" bson:"sector"`
	Stage       string `json:"stage" bson:"stage"`

	Problem         string `json:"problem,omitempty" bson:"problem,omitempty"`
	Solution        string `json:"solution,omitempty" bson:"solution,omitempty"`
	TargetAudience  string `json:"target_audience,omitempty" bson:"target_audience,omitempty"`
	MarketSize      string `json:"market_size" bson:"market_size"`
	Differentiation string `json:"differentiation,omitempty" bson:"differentiation,omitempty"`
	Traction        string `json:"traction,omitempty" bson:"traction,omitempty"`

	TeamSize      int      `json:"team_size" bson:"team_size"`
	MissingSkills []string `json:"missing_skills,omitempty" bson:"missing_skills,omitempty"`
	Ask           []string `json:"ask,omitempty" bson:"ask,omitempty"`

	MediaURL  string `json:"media_url,omitempty" bson:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty" bson:"media_type,omitempty"`

	Likes   []string `json:"likes,omitempty" bson:"likes,omitempty"`
	IsDraft bool     `json:"is_draft" bson:"is_draft"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateIdeaRequest struct {
	StartupID       string   `json:"startup_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Visibility      string   `json:"visibility"`
	IsDraft         bool     `json:"is_draft"`
	Problem         string   `json:"problem"`
	Solution        string   `json:"solution"`
	TargetAudience  string   `json:"target_audience"`
	MarketSize      string   `json:"market_size"`
	Differentiation string   `json:"differentiation"`
	Traction        string   `json:"traction"`
	TeamSize        int      `json:"team_size"`
	MissingSkills   []string `json:"missing_skills"`
	Ask             []string `json:"ask"`
	MediaURL        string   `json:"media_url"`
	MediaType       string   `json:"media_type"`
}

func (r *CreateIdeaRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.StartupID == "" {
		errors["startup_id"] = "Startup is required"
	}
	if r.Title == "" {
		errors["title"] = "Title is required"
	} else if len(r.Title) > 120 {
		errors["title"] = "Title must be at most 120 characters"
	}

	return errors
}
