package movies

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	repositories "filmbase/src/modules/movies/repositories"
	service "filmbase/src/modules/movies/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

type movieBody struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewMovieController(service.NewMovieService(repositories.NewMemoryMovieRepository(), nil, 0))

	router := gin.New()
	router.POST("/movies", controller.CreateMovie)
	router.GET("/movies", controller.ListMovies)
	router.GET("/movies/:id", controller.GetMovie)
	return router
}

func perform(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestCreateMovie(t *testing.T) {
	router := newTestRouter()

	w, env := perform(t, router, http.MethodPost, "/movies",
		`{"title":"Dune","yearOfRelease":2021,"genres":["Sci-Fi","Drama"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var movie movieBody
	require.NoError(t, json.Unmarshal(env.Data, &movie))
	assert.NotEmpty(t, movie.ID)
	assert.Equal(t, "Dune", movie.Title)
	assert.Equal(t, 2021, movie.YearOfRelease)
	assert.Equal(t, []string{"Sci-Fi", "Drama"}, movie.Genres)
}

func TestCreateMovie_DefaultsGenres(t *testing.T) {
	router := newTestRouter()

	w, env := perform(t, router, http.MethodPost, "/movies", `{"title":"Unknown"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var movie movieBody
	require.NoError(t, json.Unmarshal(env.Data, &movie))
	assert.Equal(t, 0, movie.YearOfRelease)
	assert.NotNil(t, movie.Genres)
	assert.Empty(t, movie.Genres)
	assert.Contains(t, string(env.Data), `"genres":[]`)
}

func TestCreateMovie_MissingTitle(t *testing.T) {
	router := newTestRouter()

	w, env := perform(t, router, http.MethodPost, "/movies", `{"yearOfRelease":2021,"genres":["Drama"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "title", env.Field)
	assert.Equal(t, "missing required field: title", env.Error)
}

func TestCreateMovie_MalformedBody(t *testing.T) {
	router := newTestRouter()

	w, env := perform(t, router, http.MethodPost, "/movies", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Field)
}

func TestGetMovie(t *testing.T) {
	router := newTestRouter()

	_, created := perform(t, router, http.MethodPost, "/movies", `{"title":"Heat","yearOfRelease":1995}`)
	var movie movieBody
	require.NoError(t, json.Unmarshal(created.Data, &movie))

	w, env := perform(t, router, http.MethodGet, "/movies/"+movie.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched movieBody
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, movie.ID, fetched.ID)
	assert.Equal(t, "Heat", fetched.Title)

	w, env = perform(t, router, http.MethodGet, "/movies/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestListMovies(t *testing.T) {
	router := newTestRouter()

	perform(t, router, http.MethodPost, "/movies", `{"title":"Dune","yearOfRelease":2021,"genres":["Sci-Fi"]}`)
	perform(t, router, http.MethodPost, "/movies", `{"title":"Heat","yearOfRelease":1995,"genres":["Crime"]}`)

	w, env := perform(t, router, http.MethodGet, "/movies?genre=Sci-Fi", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items      []movieBody `json:"items"`
		Pagination struct {
			TotalCount int `json:"total_count"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Dune", list.Items[0].Title)
	assert.Equal(t, 1, list.Pagination.TotalCount)

	w, _ = perform(t, router, http.MethodGet, "/movies?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
