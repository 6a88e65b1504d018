package models

import "time"

type Profile struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	FullName  string    `json:"full_name" bson:"full_name"`
	Bio       string    `json:"bio" bson:"bio"`
	Skills    []string  `json:"skills" bson:"skills"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsComplete reports whether the profile has enough content to be shown in
// discovery surfaces.
func (p *Profile) IsComplete() bool {
	return p.FullName != "" && p.Bio != "" && len(p.Skills) > 0
}

// ProfileView merges the profile with the owning user's trust fields for the
// private /profile/me response.
type ProfileView struct {
	ID                string   `json:"id"`
	Email             string   `json:"email,omitempty"`
	Role              string   `json:"role"`
	Status            string   `json:"status,omitempty"`
	TrustTier         string   `json:"trust_tier"`
	AuthenticityScore int      `json:"authenticity_score"`
	FullName          string   `json:"full_name"`
	Bio               string   `json:"bio"`
	Skills            []string `json:"skills"`
	IsProfileComplete bool     `json:"is_profile_complete"`
}

type UpdateProfileRequest struct {
	FullName string   `json:"full_name"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}
