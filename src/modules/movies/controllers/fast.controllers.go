package movies

import (
	"context"
	"net/http"

	service "filmbase/src/modules/movies/services"
	"filmbase/src/utils"

	"github.com/gin-gonic/gin"
)

type GenreService interface {
	ListGenres(ctx context.Context) (service.GenreList, error)
}

type GenreController struct {
	Service GenreService
}

func NewGenreController(s GenreService) *GenreController {
	return &GenreController{Service: s}
}

func (h *GenreController) ListGenres(c *gin.Context) {
	res, err := h.Service.ListGenres(c.Request.Context())
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}
