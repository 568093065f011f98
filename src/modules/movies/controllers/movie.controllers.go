package movies

import (
	"context"
	"errors"
	"net/http"

	lib "filmbase/src/modules/movies/lib"
	models "filmbase/src/modules/movies/models"
	service "filmbase/src/modules/movies/services"
	"filmbase/src/utils"

	"github.com/gin-gonic/gin"
)

type MovieService interface {
	Create(ctx context.Context, req lib.CreateMovieRequest) (models.Movie, error)
	Get(ctx context.Context, id string) (models.Movie, error)
	List(ctx context.Context, req lib.MovieListRequest) (service.MovieList, error)
}

type MovieController struct {
	Service MovieService
}

func NewMovieController(s MovieService) *MovieController {
	return &MovieController{Service: s}
}

func (h *MovieController) CreateMovie(c *gin.Context) {
	var req lib.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var missing *lib.MissingRequiredFieldError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   missing.Error(),
				"field":   missing.Field,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	movie, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": movie})
}

func (h *MovieController) GetMovie(c *gin.Context) {
	movie, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": movie})
}

func (h *MovieController) ListMovies(c *gin.Context) {
	var req lib.MovieListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request parameters: " + err.Error(),
		})
		return
	}

	res, err := h.Service.List(c.Request.Context(), req)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}
