package movies

import (
	"time"

	lib "filmbase/src/modules/movies/lib"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Movie struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Title         string         `json:"title" gorm:"not null"`
	YearOfRelease int            `json:"yearOfRelease" gorm:"index"`
	Genres        pq.StringArray `json:"genres" gorm:"type:text[]"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time      `json:"-"`
}

// NewMovie derives the record to persist from a create request.
func NewMovie(req lib.CreateMovieRequest) Movie {
	return Movie{
		ID:            uuid.NewString(),
		Title:         req.Title(),
		YearOfRelease: req.YearOfRelease(),
		Genres:        pq.StringArray(req.Genres()),
	}
}

// BeforeSave keeps the genres column a non-null array.
func (m *Movie) BeforeSave(tx *gorm.DB) error {
	if m.Genres == nil {
		m.Genres = pq.StringArray{}
	}
	return nil
}

// AfterFind mirrors BeforeSave for rows written before the column default existed.
func (m *Movie) AfterFind(tx *gorm.DB) error {
	if m.Genres == nil {
		m.Genres = pq.StringArray{}
	}
	return nil
}

func MigrateMovies(db *gorm.DB) error {
	return db.AutoMigrate(&Movie{})
}
