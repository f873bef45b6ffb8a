package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/utils"
)

type ContextKey string

const UserKey = ContextKey("user")

// UserFrom returns the authenticated user attached to the request
// context, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) string {
	tokenHeader := r.Header.Get("Authorization")
	parts := strings.Split(tokenHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func resolveUser(r *http.Request, users repository.UserRepository) *models.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		log.Printf("Invalid or expired token on %s %s: %v", r.Method, r.URL.Path, err)
		return nil
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}

	user, err := users.FindByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		return nil
	}
	return user
}

// Authenticate rejects requests without a valid bearer token for an
// active user.
func Authenticate(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolveUser(r, users)
			if user == nil {
				http.Error(w, "Invalid or missing authentication token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and
// continues anonymously otherwise.
func OptionalAuth(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolveUser(r, users); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if !user.IsAdmin() {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
