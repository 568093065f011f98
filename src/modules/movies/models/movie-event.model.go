package movies

import "time"

const EventMovieCreated = "movie.created"

type MovieEvent struct {
	Type      string    `json:"type"`
	Movie     Movie     `json:"movie"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMovieCreatedEvent(movie Movie, at time.Time) MovieEvent {
	return MovieEvent{
		Type:      EventMovieCreated,
		Movie:     movie,
		Timestamp: at.UTC(),
	}
}
