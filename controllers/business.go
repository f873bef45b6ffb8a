package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/middleware"
	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/services"
)

const listCacheTTL = 10 * time.Minute

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, models.NewErrorResponse(message, code))
}

func parseListQuery(query url.Values) repository.ListQuery {
	q := repository.ListQuery{
		Search:       query.Get("search"),
		Category:     query.Get("category"),
		Location:     query.Get("location"),
		CapitalRange: query.Get("paidUpCapitalRange"),
		SortBy:       query.Get("sortBy"),
		SortOrder:    query.Get("sortOrder"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		q.Limit = limit
	}
	// Malformed numeric filters are ignored, not rejected.
	if min, err := strconv.ParseFloat(query.Get("minCapital"), 64); err == nil {
		q.MinCapital = &min
	}
	if max, err := strconv.ParseFloat(query.Get("maxCapital"), 64); err == nil {
		q.MaxCapital = &max
	}
	return q
}

func projectBusinessList(businesses []models.Business, isCrawler bool, user *models.User) interface{} {
	if isCrawler {
		views := make([]models.CrawlerBusinessView, 0, len(businesses))
		for i := range businesses {
			views = append(views, models.NewCrawlerBusinessView(&businesses[i]))
		}
		return views
	}
	views := make([]models.BusinessView, 0, len(businesses))
	for i := range businesses {
		views = append(views, models.NewBusinessView(&businesses[i], user.HasFavorite(businesses[i].ID)))
	}
	return views
}

func GetAllBusinesses(svc *services.BusinessService, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())
		isCrawler := middleware.IsCrawler(r.Context())

		userID := ""
		if user != nil {
			userID = user.ID.Hex()
		}
		cacheKey := generateCacheKey(userID, isCrawler, r.URL.Query())

		if cached, err := redisClient.Get(r.Context(), cacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		} else if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		q := parseListQuery(r.URL.Query())
		businesses, pagination, err := svc.Search(r.Context(), q)
		if err != nil {
			log.Printf("Error searching businesses: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve businesses", "SERVER_ERROR")
			return
		}

		data := projectBusinessList(businesses, isCrawler, user)
		response := models.NewPaginatedResponse(data, pagination, "Businesses retrieved successfully")

		payload, err := json.Marshal(response)
		if err != nil {
			log.Printf("Failed to serialize business list: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to encode response", "SERVER_ERROR")
			return
		}

		if err := redisClient.Set(r.Context(), cacheKey, payload, listCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func GetBusinessByIDOrSlug(svc *services.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := mux.Vars(r)["idOrSlug"]
		user := middleware.UserFrom(r.Context())
		isCrawler := middleware.IsCrawler(r.Context())

		// Crawler traffic must not inflate the view counter.
		business, err := svc.GetByIDOrSlug(r.Context(), idOrSlug, !isCrawler)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Business not found", "BUSINESS_NOT_FOUND")
				return
			}
			log.Printf("Error fetching business %s: %v", idOrSlug, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve business", "SERVER_ERROR")
			return
		}

		if isCrawler {
			writeJSON(w, http.StatusOK, models.NewSuccessResponse(
				models.NewCrawlerBusinessView(business), "Business retrieved successfully"))
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(
			models.NewBusinessView(business, user.HasFavorite(business.ID)), "Business retrieved successfully"))
	}
}

func GetSimilarBusinesses(svc *services.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := mux.Vars(r)["idOrSlug"]
		user := middleware.UserFrom(r.Context())
		isCrawler := middleware.IsCrawler(r.Context())

		business, err := svc.GetByIDOrSlug(r.Context(), idOrSlug, false)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Business not found", "BUSINESS_NOT_FOUND")
				return
			}
			log.Printf("Error fetching business %s: %v", idOrSlug, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve business", "SERVER_ERROR")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		similar, err := svc.Similar(r.Context(), business, limit)
		if err != nil {
			log.Printf("Error fetching similar businesses for %s: %v", idOrSlug, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve similar businesses", "SERVER_ERROR")
			return
		}

		data := projectBusinessList(similar, isCrawler, user)
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(data, "Similar businesses retrieved successfully"))
	}
}

func GetCategories(svc *services.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.CategoriesWithCounts(r.Context())
		if err != nil {
			log.Printf("Error counting categories: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve categories", "SERVER_ERROR")
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(counts, "Categories retrieved successfully"))
	}
}

func GetCapitalRanges(svc *services.BusinessService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.CapitalRangesWithCounts(r.Context())
		if err != nil {
			log.Printf("Error counting capital ranges: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve capital ranges", "SERVER_ERROR")
			return
		}
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(counts, "Capital ranges retrieved successfully"))
	}
}

func CreateBusiness(svc *services.BusinessService, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var business models.Business
		if err := json.NewDecoder(r.Body).Decode(&business); err != nil {
			log.Printf("Invalid business payload: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}
		if business.Name == "" || business.Location == "" {
			writeError(w, http.StatusBadRequest, "Name and location are required", "VALIDATION_ERROR")
			return
		}

		if err := svc.Create(r.Context(), &business); err != nil {
			log.Printf("Error creating business: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create business", "SERVER_ERROR")
			return
		}

		go invalidateBusinessCache(redisClient)

		writeJSON(w, http.StatusCreated, models.NewSuccessResponse(
			models.NewBusinessView(&business, false), "Business created successfully"))
	}
}

func UpdateBusiness(svc *services.BusinessService, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid business ID", "VALIDATION_ERROR")
			return
		}

		var upd services.BusinessUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			log.Printf("Invalid update payload: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload", "VALIDATION_ERROR")
			return
		}

		business, err := svc.Update(r.Context(), id, upd)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Business not found", "BUSINESS_NOT_FOUND")
				return
			}
			log.Printf("Error updating business %s: %v", id.Hex(), err)
			writeError(w, http.StatusInternalServerError, "Failed to update business", "SERVER_ERROR")
			return
		}

		go invalidateBusinessCache(redisClient)

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(
			models.NewBusinessView(business, false), "Business updated successfully"))
	}
}

func DeleteBusiness(svc *services.BusinessService, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid business ID", "VALIDATION_ERROR")
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Business not found", "BUSINESS_NOT_FOUND")
				return
			}
			log.Printf("Error deleting business %s: %v", id.Hex(), err)
			writeError(w, http.StatusInternalServerError, "Failed to delete business", "SERVER_ERROR")
			return
		}

		go invalidateBusinessCache(redisClient)

		writeJSON(w, http.StatusOK, models.NewSuccessResponse(nil, "Business deleted successfully"))
	}
}

func generateCacheKey(userID string, isCrawler bool, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(userID)
	sb.WriteString(":")
	if isCrawler {
		sb.WriteString("crawler:")
	}

	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "business:" + hex.EncodeToString(sum[:])
}

func invalidateBusinessCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "business:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d business cache keys: %v", len(keysToDelete), err)
	} else {
		log.Printf("Business cache invalidated, deleted %d keys", len(keysToDelete))
	}
}
