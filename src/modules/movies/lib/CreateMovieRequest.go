package movies

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingRequiredField matches any MissingRequiredFieldError through errors.Is.
var ErrMissingRequiredField = errors.New("missing required field")

// MissingRequiredFieldError is returned when a mandatory request field is absent.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// CreateMovieRequest carries the client payload of a "create movie" call.
// Fields are only set by NewCreateMovieRequest or by JSON decoding.
type CreateMovieRequest struct {
	title         string
	yearOfRelease int
	genres        []string
}

// NewCreateMovieRequest builds a request. Title is mandatory; genres default
// to an empty slice and are copied so later changes by the caller do not leak in.
func NewCreateMovieRequest(title string, yearOfRelease int, genres ...string) (CreateMovieRequest, error) {
	if title == "" {
		return CreateMovieRequest{}, &MissingRequiredFieldError{Field: "title"}
	}
	return newCreateMovieRequest(title, yearOfRelease, genres), nil
}

func newCreateMovieRequest(title string, yearOfRelease int, genres []string) CreateMovieRequest {
	copied := make([]string, len(genres))
	copy(copied, genres)

	return CreateMovieRequest{
		title:         title,
		yearOfRelease: yearOfRelease,
		genres:        copied,
	}
}

func (r CreateMovieRequest) Title() string {
	return r.title
}

func (r CreateMovieRequest) YearOfRelease() int {
	return r.yearOfRelease
}

// Genres returns a copy of the genre list, never nil.
func (r CreateMovieRequest) Genres() []string {
	out := make([]string, len(r.genres))
	copy(out, r.genres)
	return out
}

type createMovieWire struct {
	Title         *string  `json:"title"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
}

func (r *CreateMovieRequest) UnmarshalJSON(data []byte) error {
	var wire createMovieWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	// only a missing or null key is absent; an explicit "" is a supplied title
	if wire.Title == nil {
		return &MissingRequiredFieldError{Field: "title"}
	}

	*r = newCreateMovieRequest(*wire.Title, wire.YearOfRelease, wire.Genres)
	return nil
}

func (r CreateMovieRequest) MarshalJSON() ([]byte, error) {
	genres := r.genres
	if genres == nil {
		genres = []string{}
	}
	title := r.title
	return json.Marshal(createMovieWire{
		Title:         &title,
		YearOfRelease: r.yearOfRelease,
		Genres:        genres,
	})
}
