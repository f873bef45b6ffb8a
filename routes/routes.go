package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/dcode-github/yellow_pages_system/backend/controllers"
	"github.com/dcode-github/yellow_pages_system/backend/middleware"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/services"
)

func Routes(router *mux.Router, businessRepo repository.BusinessRepository, userRepo repository.UserRepository, redisClient *redis.Client) {
	businessSvc := services.NewBusinessService(businessRepo)
	userSvc := services.NewUserService(userRepo, businessRepo)

	// Public reads run through crawler detection plus optional auth so the
	// controller can pick the projection and resolve isFavorite. Admin
	// writes share the same paths with different methods, so the chains
	// are applied per route instead of per subrouter.
	public := func(h http.HandlerFunc) http.Handler {
		return middleware.DetectCrawler(middleware.OptionalAuth(userRepo)(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Authenticate(userRepo)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Authenticate(userRepo)(middleware.RequireAdmin(h))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")

	// Auth routes
	router.HandleFunc("/api/auth/register", controllers.Register(userSvc)).Methods("POST")
	router.HandleFunc("/api/auth/login", controllers.Login(userSvc)).Methods("POST")
	router.Handle("/api/auth/profile", authed(controllers.GetProfile())).Methods("GET")

	// Business routes
	router.Handle("/api/businesses/categories", public(controllers.GetCategories(businessSvc))).Methods("GET", "HEAD")
	router.Handle("/api/businesses/capital-ranges", public(controllers.GetCapitalRanges(businessSvc))).Methods("GET", "HEAD")
	router.Handle("/api/businesses", public(controllers.GetAllBusinesses(businessSvc, redisClient))).Methods("GET", "HEAD")
	router.Handle("/api/businesses", admin(controllers.CreateBusiness(businessSvc, redisClient))).Methods("POST")
	router.Handle("/api/businesses/{idOrSlug}/similar", public(controllers.GetSimilarBusinesses(businessSvc))).Methods("GET", "HEAD")
	router.Handle("/api/businesses/{idOrSlug}", public(controllers.GetBusinessByIDOrSlug(businessSvc))).Methods("GET", "HEAD")
	router.Handle("/api/businesses/{id}", admin(controllers.UpdateBusiness(businessSvc, redisClient))).Methods("PATCH")
	router.Handle("/api/businesses/{id}", admin(controllers.DeleteBusiness(businessSvc, redisClient))).Methods("DELETE")

	// User routes
	router.Handle("/api/users", admin(controllers.GetAllUsers(userSvc))).Methods("GET")
	router.Handle("/api/users/{id}", middleware.OptionalAuth(userRepo)(controllers.GetUserByID(userSvc))).Methods("GET")
	router.Handle("/api/users/{id}", authed(controllers.UpdateUser(userSvc))).Methods("PUT")
	router.Handle("/api/users/{id}/favorites", authed(controllers.AddToFavorites(userSvc))).Methods("POST")
	router.Handle("/api/users/{id}/favorites/{businessId}", authed(controllers.RemoveFromFavorites(userSvc))).Methods("DELETE")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Digital Yellow Pages API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
