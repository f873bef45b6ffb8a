package models

import (
	"math"
	"time"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type APIErrorResponse struct {
	Success   bool     `json:"success"`
	Error     APIError `json:"error"`
	Timestamp string   `json:"timestamp"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Timestamp  string      `json:"timestamp"`
}

func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewErrorResponse(message, code string) APIErrorResponse {
	return APIErrorResponse{
		Success:   false,
		Error:     APIError{Message: message, Code: code},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewPagination computes pagination metadata from the total count of the
// unpaginated predicate.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

func NewPaginatedResponse(data interface{}, p Pagination, message string) PaginatedResponse {
	return PaginatedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}
