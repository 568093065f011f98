package movies

import (
	"context"
	"errors"
	"fmt"

	models "filmbase/src/modules/movies/models"

	"gorm.io/gorm"
)

var ErrMovieNotFound = errors.New("movie not found")

type ListFilter struct {
	Genre  string
	Year   int
	Offset int
	Limit  int
}

type MovieRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	FindByID(ctx context.Context, id string) (models.Movie, error)
	List(ctx context.Context, filter ListFilter) ([]models.Movie, int64, error)
	All(ctx context.Context) ([]models.Movie, error)
	Genres(ctx context.Context) ([]GenreCount, error)
}

type GormMovieRepository struct {
	DB *gorm.DB
}

func NewGormMovieRepository(db *gorm.DB) *GormMovieRepository {
	return &GormMovieRepository{DB: db}
}

func (r *GormMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	if err := r.DB.WithContext(ctx).Create(movie).Error; err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

func (r *GormMovieRepository) FindByID(ctx context.Context, id string) (models.Movie, error) {
	var movie models.Movie
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("failed to load movie %s: %w", id, err)
	}
	return movie, nil
}

func (r *GormMovieRepository) List(ctx context.Context, filter ListFilter) ([]models.Movie, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.Movie{})
	if filter.Genre != "" {
		query = query.Where("? = ANY(genres)", filter.Genre)
	}
	if filter.Year != 0 {
		query = query.Where("year_of_release = ?", filter.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	var items []models.Movie
	if err := query.Order("created_at desc").Offset(filter.Offset).Limit(filter.Limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return items, total, nil
}

func (r *GormMovieRepository) All(ctx context.Context) ([]models.Movie, error) {
	var items []models.Movie
	if err := r.DB.WithContext(ctx).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}
	return items, nil
}

type GenreCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func (r *GormMovieRepository) Genres(ctx context.Context) ([]GenreCount, error) {
	var out []GenreCount
	err := r.DB.WithContext(ctx).
		Raw(`SELECT g.name AS name, count(DISTINCT movies.id) AS count
			FROM movies, unnest(movies.genres) AS g(name)
			GROUP BY g.name
			ORDER BY count DESC, g.name ASC`).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate genres: %w", err)
	}
	return out, nil
}
