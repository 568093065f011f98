package movies

import "fmt"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type MovieListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Genre string `form:"genre"`
	Year  int    `form:"year"`
}

// Normalize applies paging defaults. Genre and year are passed through untouched.
func (req MovieListRequest) Normalize() MovieListRequest {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > MaxListLimit {
		req.Limit = DefaultListLimit
	}
	return req
}

// CacheKey builds the redis key for a normalized list query.
func (req MovieListRequest) CacheKey() string {
	return fmt.Sprintf("movie_list:%d:%d:%s:%d", req.Page, req.Limit, req.Genre, req.Year)
}
