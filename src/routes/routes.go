package routes

import (
	"net/http"

	"filmbase/src/config"
	files "filmbase/src/modules/files/controllers"
	movies "filmbase/src/modules/movies/controllers"
	"filmbase/src/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	Movies *movies.MovieController
	Genres *movies.GenreController
	Files  *files.FileController
	Hub    *services.Hub
	// DB is nil when running on the in-memory repository.
	DB *gorm.DB
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if h.DB == nil || config.CheckConnection(c.Request.Context(), h.DB) {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		}
	})

	// WebSocket route
	router.GET("/ws", h.Hub.WebSocketHandler)

	api := router.Group("/api/v1")

	moviesRoutes := api.Group("/movies")
	{
		moviesRoutes.POST("", h.Movies.CreateMovie)
		moviesRoutes.GET("", h.Movies.ListMovies)
		moviesRoutes.GET("/:id", h.Movies.GetMovie)
	}
	api.GET("/genres", h.Genres.ListGenres)

	// Exported snapshots from object storage
	staticRoutes := api.Group("/static")
	{
		staticRoutes.GET("/*filepath", h.Files.ServeFile)
	}
}
