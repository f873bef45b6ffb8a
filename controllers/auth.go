package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/middleware"
	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/services"
	"github.com/dcode-github/yellow_pages_system/backend/utils"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	FirstName string               `json:"firstName"`
	LastName  string               `json:"lastName"`
	FullName  string               `json:"fullName"`
	Email     string               `json:"email,omitempty"`
	Role      string               `json:"role,omitempty"`
	Favorites []primitive.ObjectID `json:"favorites,omitempty"`
	CreatedAt time.Time            `json:"createdAt,omitempty"`
	UpdatedAt time.Time            `json:"updatedAt,omitempty"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Role:      u.Role,
		Favorites: u.Favorites,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func Register(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding registration payload: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}
		if req.FirstName == "" || req.LastName == "" || req.Email == "" || len(req.Password) < 6 {
			writeError(w, http.StatusBadRequest, "First name, last name, email and a password of at least 6 characters are required", "VALIDATION_ERROR")
			return
		}

		user, err := svc.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				writeError(w, http.StatusBadRequest, "User with this email already exists", "USER_EXISTS")
				return
			}
			log.Printf("Error registering user %s: %v", req.Email, err)
			writeError(w, http.StatusInternalServerError, "Failed to register user", "SERVER_ERROR")
			return
		}

		token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
		if err != nil {
			log.Printf("Error generating token for %s: %v", req.Email, err)
			writeError(w, http.StatusInternalServerError, "Failed to generate token", "SERVER_ERROR")
			return
		}

		writeJSON(w, http.StatusCreated, models.NewSuccessResponse(
			map[string]interface{}{"user": newUserResponse(user), "token": token},
			"User registered successfully"))
	}
}

func Login(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding login payload: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}

		user, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS")
				return
			}
			log.Printf("Error authenticating %s: %v", req.Email, err)
			writeError(w, http.StatusInternalServerError, "Failed to log in", "SERVER_ERROR")
			return
		}

		token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
		if err != nil {
			log.Printf("Error generating token for %s: %v", req.Email, err)
			writeError(w, http.StatusInternalServerError, "Failed to generate token", "SERVER_ERROR")
			return
		}

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(
			map[string]interface{}{"user": newUserResponse(user), "token": token},
			"Login successful"))
	}
}

func GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required", "AUTHENTICATION_ERROR")
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(newUserResponse(user), "Profile retrieved successfully"))
	}
}
