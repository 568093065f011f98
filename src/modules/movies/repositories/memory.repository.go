package movies

import (
	"context"
	"sort"
	"sync"
	"time"

	models "filmbase/src/modules/movies/models"

	"github.com/lib/pq"
)

// MemoryMovieRepository keeps movies in process. Used by tests and by the
// server when no database is configured.
type MemoryMovieRepository struct {
	mu     sync.RWMutex
	movies map[string]models.Movie
	now    func() time.Time
}

func NewMemoryMovieRepository() *MemoryMovieRepository {
	return &MemoryMovieRepository{
		movies: make(map[string]models.Movie),
		now:    time.Now,
	}
}

func (r *MemoryMovieRepository) Create(_ context.Context, movie *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	movie.CreatedAt = now
	movie.UpdatedAt = now
	if movie.Genres == nil {
		movie.Genres = pq.StringArray{}
	}
	r.movies[movie.ID] = clone(*movie)
	return nil
}

func (r *MemoryMovieRepository) FindByID(_ context.Context, id string) (models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movie, ok := r.movies[id]
	if !ok {
		return models.Movie{}, ErrMovieNotFound
	}
	return clone(movie), nil
}

func (r *MemoryMovieRepository) List(_ context.Context, filter ListFilter) ([]models.Movie, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Movie
	for _, movie := range r.movies {
		if filter.Genre != "" && !hasGenre(movie.Genres, filter.Genre) {
			continue
		}
		if filter.Year != 0 && movie.YearOfRelease != filter.Year {
			continue
		}
		matched = append(matched, clone(movie))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.Movie{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (r *MemoryMovieRepository) All(ctx context.Context) ([]models.Movie, error) {
	items, _, err := r.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	// oldest first, matching the gorm repository
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (r *MemoryMovieRepository) Genres(_ context.Context) ([]GenreCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, movie := range r.movies {
		seen := make(map[string]struct{}, len(movie.Genres))
		for _, g := range movie.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			counts[g]++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, GenreCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func hasGenre(genres pq.StringArray, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}

func clone(m models.Movie) models.Movie {
	genres := make(pq.StringArray, len(m.Genres))
	copy(genres, m.Genres)
	m.Genres = genres
	return m
}
