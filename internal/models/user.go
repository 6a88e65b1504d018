package models

import (
	"strings"
	"time"
)

// User roles.
const (
	RoleFounder      = "FOUNDER"
	RoleInvestor     = "INVESTOR"
	RoleMentor       = "MENTOR"
	RoleProfessional = "PROFESSIONAL"
	RoleAdmin        = "ADMIN"
)

// Account statuses.
const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusDeleted   = "DELETED"
)

// Trust tiers derived from the authenticity score.
const (
	TierBronze   = "BRONZE"
	TierSilver   = "SILVER"
	TierGold     = "GOLD"
	TierPlatinum = "PLATINUM"
)

// DefaultAuthenticityScore is assigned to every new account.
const DefaultAuthenticityScore = 50

type User struct {
	ID           string `json:"id" bson:"_id"`
	Email        string `json:"email" bson:"email"`
	Phone        string `json:"phone" bson:"phone"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         string `json:"role" bson:"role"`
	Status       string `json:"status" bson:"status"`

	// Trust & authenticity. TrustTier is always derived from
	// AuthenticityScore; the two are persisted together.
	AuthenticityScore int        `json:"authenticity_score" bson:"authenticity_score"`
	TrustTier         string     `json:"trust_tier" bson:"trust_tier"`
	NegativeFlags     int        `json:"negative_flags" bson:"negative_flags"`
	FraudFlags        int        `json:"fraud_flags" bson:"fraud_flags"`
	LastFraudAt       *time.Time `json:"last_fraud_at,omitempty" bson:"last_fraud_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the subset of User safe to embed in API responses.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

func validRole(role string) bool {
	switch role {
	case RoleFounder, RoleInvestor, RoleMentor, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Phone == "" {
		errors["phone"] = "Phone is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.Role == "" {
		errors["role"] = "Role is required"
	} else if !validRole(r.Role) {
		errors["role"] = "Invalid role"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
