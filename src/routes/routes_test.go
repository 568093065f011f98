package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	filecontrollers "filmbase/src/modules/files/controllers"
	file "filmbase/src/modules/files/services"
	movies "filmbase/src/modules/movies/controllers"
	repositories "filmbase/src/modules/movies/repositories"
	movieservices "filmbase/src/modules/movies/services"
	"filmbase/src/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	hub := services.NewHub()
	movieService := movieservices.NewMovieService(repositories.NewMemoryMovieRepository(), nil, 0, hub)
	router := gin.New()
	RegisterRoutes(router, Handlers{
		Movies: movies.NewMovieController(movieService),
		Genres: movies.NewGenreController(movieService),
		Files:  filecontrollers.NewFileController(file.NewFileService(file.NewMemoryStore(), nil, 0)),
		Hub:    hub,
	})
	return router
}

func TestRegisterRoutes(t *testing.T) {
	router := newRouter()

	tests := []struct {
		method, path, body string
		expected           int
	}{
		{method: http.MethodGet, path: "/healthz", expected: http.StatusOK},
		{method: http.MethodGet, path: "/readyz", expected: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/movies", body: `{"title":"Dune","yearOfRelease":2021}`, expected: http.StatusCreated},
		{method: http.MethodPost, path: "/api/v1/movies", body: `{"yearOfRelease":2021}`, expected: http.StatusBadRequest},
		{method: http.MethodGet, path: "/api/v1/movies", expected: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/movies/unknown", expected: http.StatusNotFound},
		{method: http.MethodGet, path: "/api/v1/genres", expected: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/static/exports/movies-latest.json", expected: http.StatusNotFound},
	}

	for _, test := range tests {
		req := httptest.NewRequest(test.method, test.path, strings.NewReader(test.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, test.expected, w.Code, "%s %s", test.method, test.path)
	}
}
