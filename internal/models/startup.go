package models

import "time"

// Startup stages.
const (
	StageIdea      = "IDEA"
	StagePrototype = "PROTOTYPE"
	StageMarket    = "MARKET"
	StageRevenue   = "REVENUE"
)

// Verification levels a startup can hold.
const (
	VerifiedNone      = "NONE"
	VerifiedIdea      = "IDEA"
	VerifiedPrototype = "PROTOTYPE"
	VerifiedMarket    = "MARKET"
)

type Startup struct {
	ID            string    `json:"id" bson:"_id"`
	Owner         string    `json:"owner" bson:"owner"`
	Name          string    `json:"name" bson:"name"`
	Sector        string    `json:"sector" bson:"sector"`
	Domain        string    `json:"domain" bson:"domain"`
	Stage         string    `json:"stage" bson:"stage"`
	VerifiedLevel string    `json:"verified_level" bson:"verified_level"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	Website       string    `json:"website,omitempty" bson:"website,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateStartupRequest struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Domain      string `json:"domain"`
	Stage       string `json:"stage"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

func (r *CreateStartupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Sector == "" {
		errors["sector"] = "Sector is required"
	}
	if r.Domain == "" {
		errors["domain"] = "Domain is required"
	}

	return errors
}
