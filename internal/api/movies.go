package api

import (
	"context"
	"fmt"
	"net/url"
)

// Movie mirrors the backend's movie detail shape.  Field names follow the
// wire format exactly.
type Movie struct {
	MovieID     uint64   `json:"movie_id"`
	Title       string   `json:"movie_title"`
	Description string   `json:"movie_description"`
	AgeRating   string   `json:"age_rating"`
	PosterURL   string   `json:"poster_url"`
	TrailerURL  string   `json:"trailer_url"`
	Status      string   `json:"movie_status"`
	Genres      []string `json:"genres"`
	Showtimes   []string `json:"showtimes"`
}

// ListMovies fetches all movies with details.
func (c *Client) ListMovies(ctx context.Context) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movies/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentlyRunning fetches movies whose status is "Currently Running".
func (c *Client) CurrentlyRunning(ctx context.Context) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movies/currently_running/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ComingSoon fetches movies not yet running.
func (c *Client) ComingSoon(ctx context.Context) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movies/coming-soon/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMovies searches movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movies/search/?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MoviesByGenre filters movies by genre name.
func (c *Client) MoviesByGenre(ctx context.Context, genre string) ([]Movie, error) {
	var out []Movie
	if err := c.get(ctx, "/movies/genre/"+url.PathEscape(genre)+"/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMovie fetches one movie's details by id.
func (c *Client) GetMovie(ctx context.Context, movieID uint64) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, fmt.Sprintf("/movies/%d/", movieID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
