package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/middleware"
	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/services"
)

func GetUserByID(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID", "VALIDATION_ERROR")
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
				return
			}
			log.Printf("Error fetching user %s: %v", id.Hex(), err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve user", "SERVER_ERROR")
			return
		}

		caller := middleware.UserFrom(r.Context())
		isOwnerOrAdmin := caller != nil && (caller.ID == user.ID || caller.IsAdmin())

		response := newUserResponse(user)
		if !isOwnerOrAdmin {
			// Strangers only see the public name fields.
			response.Email = ""
			response.Role = ""
			response.Favorites = nil
		}

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(response, "User retrieved successfully"))
	}
}

func UpdateUser(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID", "VALIDATION_ERROR")
			return
		}

		caller := middleware.UserFrom(r.Context())
		if caller.ID != id && !caller.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not authorized to update this profile", "UNAUTHORIZED")
			return
		}

		var req struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Error decoding profile update: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}

		user, err := svc.UpdateProfile(r.Context(), id, req.FirstName, req.LastName, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
			case errors.Is(err, services.ErrEmailTaken):
				writeError(w, http.StatusBadRequest, "Email already in use", "EMAIL_EXISTS")
			default:
				log.Printf("Error updating user %s: %v", id.Hex(), err)
				writeError(w, http.StatusInternalServerError, "Failed to update profile", "SERVER_ERROR")
			}
			return
		}

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(newUserResponse(user), "Profile updated successfully"))
	}
}

func AddToFavorites(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID", "VALIDATION_ERROR")
			return
		}

		caller := middleware.UserFrom(r.Context())
		if caller.ID != id {
			writeError(w, http.StatusForbidden, "Not authorized to modify favorites", "UNAUTHORIZED")
			return
		}

		var req struct {
			BusinessID string `json:"businessId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}
		businessID, err := primitive.ObjectIDFromHex(req.BusinessID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid business ID", "VALIDATION_ERROR")
			return
		}

		user, err := svc.AddFavorite(r.Context(), id, businessID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "Business not found", "BUSINESS_NOT_FOUND")
			case errors.Is(err, services.ErrAlreadyFavorite):
				writeError(w, http.StatusBadRequest, "Business already in favorites", "ALREADY_FAVORITE")
			default:
				log.Printf("Error adding favorite for user %s: %v", id.Hex(), err)
				writeError(w, http.StatusInternalServerError, "Failed to add favorite", "SERVER_ERROR")
			}
			return
		}

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(user.Favorites, "Business added to favorites"))
	}
}

func RemoveFromFavorites(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id, err := primitive.ObjectIDFromHex(vars["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID", "VALIDATION_ERROR")
			return
		}
		businessID, err := primitive.ObjectIDFromHex(vars["businessId"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid business ID", "VALIDATION_ERROR")
			return
		}

		caller := middleware.UserFrom(r.Context())
		if caller.ID != id {
			writeError(w, http.StatusForbidden, "Not authorized to modify favorites", "UNAUTHORIZED")
			return
		}

		user, err := svc.RemoveFavorite(r.Context(), id, businessID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
			case errors.Is(err, services.ErrNotFavorite):
				writeError(w, http.StatusNotFound, "Business not in favorites", "NOT_FAVORITE")
			default:
				log.Printf("Error removing favorite for user %s: %v", id.Hex(), err)
				writeError(w, http.StatusInternalServerError, "Failed to remove favorite", "SERVER_ERROR")
			}
			return
		}

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(user.Favorites, "Business removed from favorites"))
	}
}

func GetAllUsers(svc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit <= 0 {
			limit = repository.DefaultPageSize
		}

		users, total, err := svc.ListActive(r.Context(), page, limit)
		if err != nil {
			log.Printf("Error listing users: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve users", "SERVER_ERROR")
			return
		}

		responses := make([]userResponse, 0, len(users))
		for i := range users {
			responses = append(responses, newUserResponse(&users[i]))
		}

		writeJSON(w, http.StatusOK, models.NewPaginatedResponse(
			responses, models.NewPagination(page, limit, total), "Users retrieved successfully"))
	}
}
