package movies

import (
	"context"
	"encoding/json"
	"net/http"

	repositories "filmbase/src/modules/movies/repositories"
	"filmbase/src/utils"

	"github.com/redis/go-redis/v9"
)

const GenresCacheKey = "genres:all"

type GenreList struct {
	Items     []repositories.GenreCount `json:"items"`
	FromCache bool                      `json:"from_cache"`
}

// ListGenres returns every genre in use with the number of movies tagged with it.
func (s *MovieService) ListGenres(ctx context.Context) (GenreList, error) {
	var gen int64
	cacheable := false
	if s.RDB != nil {
		if cached, err := s.RDB.Get(ctx, GenresCacheKey).Bytes(); err == nil && len(cached) > 0 {
			var result GenreList
			if jsonErr := json.Unmarshal(cached, &result); jsonErr == nil {
				result.FromCache = true
				return result, nil
			}
		}
		gen, cacheable = s.listGeneration(ctx)
	}

	items, err := s.Repo.Genres(ctx)
	if err != nil {
		return GenreList{}, utils.NewServiceError(http.StatusInternalServerError, "failed to list genres", err)
	}
	if items == nil {
		items = []repositories.GenreCount{}
	}
	result := GenreList{Items: items}

	if cacheable {
		if body, err := json.Marshal(result); err == nil {
			err := s.cacheIfCurrent(ctx, gen, func(pipe redis.Pipeliner) {
				pipe.Set(ctx, GenresCacheKey, body, s.CacheTTL)
			})
			if err != nil {
				log.Debugf("[Cache] genres not cached: %v", err)
			}
		}
	}
	return result, nil
}
