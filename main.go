package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmbase/src/config"
	"filmbase/src/middlewares"
	filecontrollers "filmbase/src/modules/files/controllers"
	file "filmbase/src/modules/files/services"
	movies "filmbase/src/modules/movies/controllers"
	repositories "filmbase/src/modules/movies/repositories"
	movieservices "filmbase/src/modules/movies/services"
	"filmbase/src/routes"
	"filmbase/src/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var log = logging.MustGetLogger("log")

type backends struct {
	db    *gorm.DB
	rdb   *redis.Client
	store file.ObjectStore
}

// connectBackends dials every configured backend concurrently. Unconfigured
// ones fall back to in-process implementations.
func connectBackends(ctx context.Context, s *config.Settings) (*backends, error) {
	b := &backends{store: file.NewMemoryStore()}
	g, gctx := errgroup.WithContext(ctx)

	if s.Database.Enabled() {
		g.Go(func() error {
			db, err := config.ConnectDatabase(s.Database, s.Env == "development")
			b.db = db
			return err
		})
	} else {
		log.Warning("DB_HOST not set, movies are kept in memory")
	}

	if s.Redis.Enabled() {
		g.Go(func() error {
			rdb, err := config.ConnectRedis(gctx, s.Redis)
			b.rdb = rdb
			return err
		})
	} else {
		log.Warning("Redis not configured, caching disabled")
	}

	if s.Minio.Enabled() {
		g.Go(func() error {
			store, err := config.ConnectMinio(gctx, s.Minio)
			if err == nil {
				b.store = store
			}
			return err
		})
	} else {
		log.Warning("MINIO_ENDPOINT not set, exports are kept in memory")
	}

	if err := g.Wait(); err != nil {
		b.close()
		return nil, err
	}
	return b, nil
}

// close releases whichever backends connected.
func (b *backends) close() {
	if b.rdb != nil {
		_ = b.rdb.Close()
	}
	config.CloseDatabase(b.db)
}

func run() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if err := config.InitLogger(settings.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", settings.LogLevel, err)
	}
	log.Infof("NODE_ENV = %s", settings.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	b, err := connectBackends(connectCtx, settings)
	cancel()
	if err != nil {
		return err
	}
	defer b.close()

	var repo repositories.MovieRepository = repositories.NewMemoryMovieRepository()
	if b.db != nil {
		repo = repositories.NewGormMovieRepository(b.db)
	}

	hub := services.NewHub()
	defer hub.Close()
	publishers := []movieservices.Publisher{hub}
	if settings.RabbitURL != "" {
		rabbit, err := services.NewRabbitPublisher(settings.RabbitURL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
	}

	movieService := movieservices.NewMovieService(repo, b.rdb, settings.CacheTTL, publishers...)
	fileService := file.NewFileService(b.store, b.rdb, 0)

	jobs := services.NewBackgroundJobs(movieService, fileService)
	scheduler, err := jobs.SetupBackgroundJobs(settings.ExportInterval)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	if settings.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	if settings.RateLimit.Enabled {
		limiter := middlewares.NewRateLimiter(settings.RateLimit.RPS, settings.RateLimit.Burst)
		go limiter.Janitor(ctx)
		router.Use(limiter.Middleware())
	}

	routes.RegisterRoutes(router, routes.Handlers{
		Movies: movies.NewMovieController(movieService),
		Genres: movies.NewGenreController(movieService),
		Files:  filecontrollers.NewFileController(fileService),
		Hub:    hub,
		DB:     b.db,
	})

	srv := &http.Server{
		Addr:         settings.Addr(),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("action: start_server | addr: %s | env: %s", srv.Addr, settings.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("action: shutdown_server | result: in_progress")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("action: shutdown_server | result: success")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Criticalf("action: run | result: fail | error: %v", err)
		os.Exit(1)
	}
}
