package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	file "filmbase/src/modules/files/services"
	movies2 "filmbase/src/modules/movies/models"
	movies "filmbase/src/modules/movies/services"

	"github.com/op/go-logging"
	"github.com/robfig/cron/v3"
)

var log = logging.MustGetLogger("log")

const (
	ExportPrefix    = "exports/"
	LatestExportKey = ExportPrefix + "movies-latest.json"
)

type CatalogueSnapshot struct {
	ExportedAt time.Time       `json:"exported_at"`
	Count      int             `json:"count"`
	Items      []movies2.Movie `json:"items"`
}

type BackgroundJobs struct {
	Movies *movies.MovieService
	Files  *file.FileService
	now    func() time.Time
}

func NewBackgroundJobs(movieService *movies.MovieService, fileService *file.FileService) *BackgroundJobs {
	return &BackgroundJobs{Movies: movieService, Files: fileService, now: time.Now}
}

// SetupBackgroundJobs registers the catalogue export and cache pruning jobs
// and starts the scheduler. Callers stop it with Stop().
func (j *BackgroundJobs) SetupBackgroundJobs(exportEvery time.Duration) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", exportEvery), func() {
		if _, err := j.ExportCatalogue(context.Background()); err != nil {
			log.Errorf("[Export] catalogue export failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule export: %w", err)
	}

	if _, err := c.AddFunc("@every 15m", func() {
		pruned, err := j.Movies.PruneListCache(context.Background())
		if err != nil {
			log.Errorf("[Sync] prune list cache failed: %v", err)
			return
		}
		log.Debugf("[Sync] pruned %d stale list keys", pruned)
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule cache pruning: %w", err)
	}

	c.Start()
	log.Infof("[Cron] Background jobs initialized, export every %s", exportEvery)
	return c, nil
}

// ExportCatalogue writes the whole catalogue as a timestamped JSON snapshot
// plus a stable "latest" copy, returning the timestamped key.
func (j *BackgroundJobs) ExportCatalogue(ctx context.Context) (string, error) {
	items, err := j.Movies.All(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load catalogue: %w", err)
	}
	if items == nil {
		items = []movies2.Movie{}
	}

	at := j.now().UTC()
	body, err := json.Marshal(CatalogueSnapshot{ExportedAt: at, Count: len(items), Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%smovies-%s.json", ExportPrefix, at.Format("20060102-150405"))
	for _, k := range []string{key, LatestExportKey} {
		if err := j.Files.Write(ctx, k, body, "application/json"); err != nil {
			return "", err
		}
	}

	log.Infof("[Export] wrote %d movies to %s", len(items), key)
	return key, nil
}
