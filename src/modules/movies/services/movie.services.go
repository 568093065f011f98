package movies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	lib "filmbase/src/modules/movies/lib"
	models "filmbase/src/modules/movies/models"
	repositories "filmbase/src/modules/movies/repositories"
	"filmbase/src/utils"

	"github.com/op/go-logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var log = logging.MustGetLogger("log")

const (
	DefaultCacheTTL   = 16 * time.Hour
	ListCacheTagKey   = "movie_list:cached_keys"
	ListGenerationKey = "movie_list:gen"
	detailsKeyPrefix  = "movie_details:"
	loadTimeout       = 10 * time.Second
)

var errStaleGeneration = errors.New("cache generation changed")

// Publisher receives movie events after they are committed.
type Publisher interface {
	Publish(ctx context.Context, event models.MovieEvent) error
}

type MovieList struct {
	Items      []models.Movie   `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
	FromCache  bool             `json:"from_cache"`
}

type MovieService struct {
	Repo       repositories.MovieRepository
	RDB        *redis.Client
	Publishers []Publisher
	CacheTTL   time.Duration

	group singleflight.Group
	now   func() time.Time
}

// NewMovieService wires a service. rdb may be nil, which disables caching.
func NewMovieService(repo repositories.MovieRepository, rdb *redis.Client, ttl time.Duration, publishers ...Publisher) *MovieService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MovieService{
		Repo:       repo,
		RDB:        rdb,
		Publishers: publishers,
		CacheTTL:   ttl,
		now:        time.Now,
	}
}

func (s *MovieService) Create(ctx context.Context, req lib.CreateMovieRequest) (models.Movie, error) {
	movie := models.NewMovie(req)
	if err := s.Repo.Create(ctx, &movie); err != nil {
		return models.Movie{}, utils.NewServiceError(http.StatusInternalServerError, "failed to create movie", err)
	}
	log.Infof("action: create_movie | result: success | id: %s | title: %q", movie.ID, movie.Title)

	s.invalidateLists(ctx)

	event := models.NewMovieCreatedEvent(movie, s.now())
	for _, p := range s.Publishers {
		if err := p.Publish(ctx, event); err != nil {
			log.Warningf("action: publish_event | result: fail | type: %s | id: %s | error: %v", event.Type, movie.ID, err)
		}
	}

	return movie, nil
}

func (s *MovieService) Get(ctx context.Context, id string) (models.Movie, error) {
	cacheKey := detailsKeyPrefix + id

	if s.RDB != nil {
		if cached, err := s.RDB.Get(ctx, cacheKey).Bytes(); err == nil && len(cached) > 0 {
			var movie models.Movie
			if jsonErr := json.Unmarshal(cached, &movie); jsonErr == nil {
				return movie, nil
			}
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		// shared by every collapsed caller, so it must outlive the first one
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		movie, err := s.Repo.FindByID(loadCtx, id)
		if errors.Is(err, repositories.ErrMovieNotFound) {
			return nil, utils.NewServiceError(http.StatusNotFound, fmt.Sprintf("movie %s not found", id), err)
		}
		if err != nil {
			return nil, utils.NewServiceError(http.StatusInternalServerError, "failed to load movie", err)
		}

		if s.RDB != nil {
			if body, err := json.Marshal(movie); err == nil {
				if err := s.RDB.Set(loadCtx, cacheKey, body, s.CacheTTL).Err(); err != nil {
					log.Debugf("[Cache] set %s failed: %v", cacheKey, err)
				}
			}
		}
		return movie, nil
	})
	if err != nil {
		return models.Movie{}, err
	}
	return v.(models.Movie), nil
}

func (s *MovieService) List(ctx context.Context, req lib.MovieListRequest) (MovieList, error) {
	req = req.Normalize()
	cacheKey := req.CacheKey()

	var gen int64
	cacheable := false
	if s.RDB != nil {
		if cached, err := s.RDB.Get(ctx, cacheKey).Bytes(); err == nil && len(cached) > 0 {
			var result MovieList
			if jsonErr := json.Unmarshal(cached, &result); jsonErr == nil {
				result.FromCache = true
				return result, nil
			}
		}
		gen, cacheable = s.listGeneration(ctx)
	}

	items, total, err := s.Repo.List(ctx, repositories.ListFilter{
		Genre:  req.Genre,
		Year:   req.Year,
		Offset: utils.CalculateOffset(req.Page, req.Limit),
		Limit:  req.Limit,
	})
	if err != nil {
		return MovieList{}, utils.NewServiceError(http.StatusInternalServerError, "failed to list movies", err)
	}
	if items == nil {
		items = []models.Movie{}
	}

	result := MovieList{
		Items:      items,
		Pagination: utils.Paginate(total, req.Page, req.Limit),
	}

	if cacheable {
		if body, err := json.Marshal(result); err == nil {
			err := s.cacheIfCurrent(ctx, gen, func(pipe redis.Pipeliner) {
				pipe.Set(ctx, cacheKey, body, s.CacheTTL)
				pipe.SAdd(ctx, ListCacheTagKey, cacheKey)
				pipe.Expire(ctx, ListCacheTagKey, s.CacheTTL)
			})
			if err != nil {
				log.Debugf("[Cache] list %s not cached: %v", cacheKey, err)
			}
		}
	}

	return result, nil
}

// All returns the whole catalogue, oldest first.
func (s *MovieService) All(ctx context.Context) ([]models.Movie, error) {
	return s.Repo.All(ctx)
}

// PruneListCache removes tag set members whose cached page already expired.
func (s *MovieService) PruneListCache(ctx context.Context) (int, error) {
	if s.RDB == nil {
		return 0, nil
	}

	keys, err := s.RDB.SMembers(ctx, ListCacheTagKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", ListCacheTagKey, err)
	}

	var stale []any
	for _, key := range keys {
		n, err := s.RDB.Exists(ctx, key).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to check %s: %w", key, err)
		}
		if n == 0 {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.RDB.SRem(ctx, ListCacheTagKey, stale...).Err(); err != nil {
		return 0, fmt.Errorf("failed to prune %s: %w", ListCacheTagKey, err)
	}
	return len(stale), nil
}

// listGeneration reads the counter bumped by every create. ok is false when
// it cannot be read, and then nothing is cached.
func (s *MovieService) listGeneration(ctx context.Context) (int64, bool) {
	gen, err := s.RDB.Get(ctx, ListGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Debugf("[Cache] could not read %s: %v", ListGenerationKey, err)
		return 0, false
	}
	return gen, true
}

// cacheIfCurrent applies fill in one transaction, provided no create bumped
// the generation since gen was read.
func (s *MovieService) cacheIfCurrent(ctx context.Context, gen int64, fill func(pipe redis.Pipeliner)) error {
	return s.RDB.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, ListGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			fill(pipe)
			return nil
		})
		return err
	}, ListGenerationKey)
}

// invalidateLists drops every cached list page and the genre counts; any
// new movie can shift them. The generation is bumped before the tag set is
// read so a page cached by a concurrent read is either refused or deleted.
func (s *MovieService) invalidateLists(ctx context.Context) {
	if s.RDB == nil {
		return
	}

	if err := s.RDB.Incr(ctx, ListGenerationKey).Err(); err != nil {
		log.Warningf("[Cache] could not bump %s: %v", ListGenerationKey, err)
	}

	keys, err := s.RDB.SMembers(ctx, ListCacheTagKey).Result()
	if err != nil {
		log.Warningf("[Cache] could not read %s: %v", ListCacheTagKey, err)
		return
	}

	pipe := s.RDB.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, ListCacheTagKey, GenresCacheKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warningf("[Cache] list invalidation failed: %v", err)
	}
}
