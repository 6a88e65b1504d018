package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Gampa15/foundin-backend/internal/models"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// ParseToken validates an HMAC JWT and returns the user id and role claims.
func ParseToken(tokenString, jwtSecret string) (userID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	role, _ = claims["role"].(string)
	return userID, role, nil
}

// JWTAuth middleware validates bearer tokens and stores the user id and role
// in the request context.
func JWTAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid authorization header format"))
				return
			}

			userID, role, err := ParseToken(parts[1], jwtSecret)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserLookup is the store access RequireAdmin needs to re-check role and
// account state on every admin request.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAdmin gates admin routes. The token's role claim is a cheap
// pre-filter; the store read is authoritative, so a demoted or suspended
// admin is locked out immediately even while their token is still valid.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
				return
			}

			if role := GetUserRole(r.Context()); role != "" && role != models.RoleAdmin {
				writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Admin access only"))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("User not found"))
				return
			}
			if user.Status == models.StatusSuspended {
				writeJSON(w, http.StatusForbidden, models.NewErrorResponse("User is suspended"))
				return
			}
			if user.Role != models.RoleAdmin {
				writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Admin access only"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetUserRole extracts the role claim from context
func GetUserRole(ctx context.Context) string {
	role, ok := ctx.Value(UserRoleKey).(string)
	if !ok {
		return ""
	}
	return role
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
