package api

import (
	"context"
	"fmt"

	"github.com/iliyamo/cinema-booking-web/internal/booking"
)

// Showing is one scheduled screening of a movie: a start time in a
// showroom, distinct from the movie itself.
type Showing struct {
	ShowingID    uint64 `json:"showing_id"`
	MovieID      uint64 `json:"movie_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ShowroomName string `json:"showroom_name"`
}

// ListShowings fetches all showings scheduled for a movie.  The booking
// page resolves its route showtime string against this list.
func (c *Client) ListShowings(ctx context.Context, movieID uint64) ([]Showing, error) {
	var out []Showing
	if err := c.get(ctx, fmt.Sprintf("/movies/%d/showings/", movieID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSeatMap fetches the seat availability snapshot for a showing, keyed by
// row label.  The snapshot is taken once per booking session and never
// refreshed in place; the backend re-checks availability at submission.
func (c *Client) GetSeatMap(ctx context.Context, showingID uint64) (booking.SeatMap, error) {
	var out booking.SeatMap
	if err := c.get(ctx, fmt.Sprintf("/showings/%d/seats/", showingID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewRequest asks the backend to price a draft booking.
type PreviewRequest struct {
	ShowingID uint64                   `json:"showing_id"`
	Seats     []booking.SeatAssignment `json:"seats"`
	PromoCode string                   `json:"promo_code,omitempty"`
}

// PreviewBooking requests a non-binding price quote for the draft.  The
// backend owns all pricing and discount computation.
func (c *Client) PreviewBooking(ctx context.Context, req PreviewRequest) (*booking.PricePreview, error) {
	var out booking.PricePreview
	if err := c.post(ctx, "/bookings/preview/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBookingRequest finalizes a draft.  Exactly one payment method is
// present: a saved card id, or the four new-card fields.
type CreateBookingRequest struct {
	ShowingID     uint64                   `json:"showing_id"`
	Seats         []booking.SeatAssignment `json:"seats"`
	PromoCode     string                   `json:"promo_code,omitempty"`
	PaymentCardID uint64                   `json:"payment_card_id,omitempty"`
	CardNumber    string                   `json:"card_number,omitempty"`
	Expiration    string                   `json:"expiration,omitempty"`
	Brand         string                   `json:"brand,omitempty"`
	CVV           string                   `json:"cvv,omitempty"`
}

// BookingConfirmation is the backend's answer to a successful booking.
type BookingConfirmation struct {
	BookingID  uint64  `json:"booking_id"`
	FinalPrice float64 `json:"final_price"`
}

// CreateBooking submits the finalized draft.  On rejection (seat taken
// since page load, expired promo, payment failure) the returned *APIError
// carries the backend's message verbatim for display.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingConfirmation, error) {
	var out BookingConfirmation
	if err := c.post(ctx, "/bookings/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
