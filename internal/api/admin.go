package api

import (
	"context"
	"fmt"
)

// Admin console calls.  These are thin proxies: validation (duplicate
// titles, showtime conflicts, overlapping promotions) is performed by the
// backend and relayed verbatim.

// AddMovieRequest carries a new movie's fields.
type AddMovieRequest struct {
	Title       string   `json:"movie_title"`
	Description string   `json:"movie_description"`
	AgeRating   string   `json:"age_rating"`
	PosterURL   string   `json:"poster_url"`
	TrailerURL  string   `json:"trailer_url"`
	Status      string   `json:"movie_status"`
	Genres      []string `json:"genres,omitempty"`
}

// AddMovie creates a movie.
func (c *Client) AddMovie(ctx context.Context, req AddMovieRequest) (*Movie, error) {
	var out Movie
	if err := c.post(ctx, "/admin/movies/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMovie removes a movie by id.
func (c *Client) DeleteMovie(ctx context.Context, movieID uint64) error {
	return c.del(ctx, fmt.Sprintf("/admin/movies/%d/", movieID))
}

// Promotion is a discount code with a validity window.
type Promotion struct {
	PromoID   uint64  `json:"promo_id"`
	PromoCode string  `json:"promo_code"`
	Discount  float64 `json:"discount"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// AddPromotionRequest carries a new promotion's fields.
type AddPromotionRequest struct {
	PromoCode string  `json:"promo_code"`
	Discount  float64 `json:"discount"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// AddPromotion creates a promotion.
func (c *Client) AddPromotion(ctx context.Context, req AddPromotionRequest) (*Promotion, error) {
	var out Promotion
	if err := c.post(ctx, "/admin/promotions/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePromotion removes a promotion by id.
func (c *Client) DeletePromotion(ctx context.Context, promoID uint64) error {
	return c.del(ctx, fmt.Sprintf("/admin/promotions/%d/", promoID))
}

// ScheduleShowingRequest asks the backend to schedule a screening.  The
// backend performs showroom conflict detection and rejects overlaps.
type ScheduleShowingRequest struct {
	MovieID      uint64 `json:"movie_id"`
	ShowroomName string `json:"showroom_name"`
	StartTime    string `json:"start_time"`
}

// ScheduleShowing creates a showing.  A scheduling conflict surfaces as an
// *APIError carrying the backend's message.
func (c *Client) ScheduleShowing(ctx context.Context, req ScheduleShowingRequest) (*Showing, error) {
	var out Showing
	if err := c.post(ctx, "/admin/showings/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
