package utils

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	ItemsPerPage int   `json:"items_per_page"`
	NextPage     *int  `json:"next_page"`
	PreviousPage *int  `json:"previous_page"`
	TotalCount   int64 `json:"total_count"`
	TotalPages   int   `json:"total_pages"`
}

func Paginate(total int64, page, perPage int) Pagination {
	// Avoid division by zero
	if perPage <= 0 {
		perPage = 1
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	var nextPage, prevPage *int
	if page < totalPages {
		next := page + 1
		nextPage = &next
	}
	if page > 1 {
		prev := page - 1
		prevPage = &prev
	}

	return Pagination{
		CurrentPage:  page,
		ItemsPerPage: perPage,
		NextPage:     nextPage,
		PreviousPage: prevPage,
		TotalCount:   total,
		TotalPages:   totalPages,
	}
}

// CalculateOffset returns the row offset of a 1-based page.
func CalculateOffset(currentPage, itemsPerPage int) int {
	offset := (currentPage - 1) * itemsPerPage
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ServiceError to define return exception for system
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(status int, message string, err error) *ServiceError {
	return &ServiceError{StatusCode: status, Message: message, Err: err}
}

// StatusCode maps any error to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.StatusCode
	}
	return http.StatusInternalServerError
}

// AbortWithError writes the standard failure envelope.
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusCode(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}
