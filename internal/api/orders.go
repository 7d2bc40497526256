package api

import (
	"context"
	"fmt"
	"net/http"
)

// TicketLine is one issued ticket inside a confirmed booking.
type TicketLine struct {
	SeatDisplay string  `json:"seat_display"`
	AgeCategory string  `json:"age_category"`
	Price       float64 `json:"price"`
}

// Order is a confirmed booking as the history endpoints report it.  The
// detail endpoint additionally fills UserEmail.
type Order struct {
	BookingID    uint64       `json:"booking_id"`
	UserEmail    string       `json:"user_email,omitempty"`
	MovieTitle   string       `json:"movie_title"`
	ShowroomName string       `json:"showroom_name"`
	StartTime    string       `json:"start_time"`
	Tickets      []TicketLine `json:"tickets"`
	TotalPrice   float64      `json:"total_price"`
}

// OrderHistory lists the signed-in user's bookings, most recent first.
func (c *Client) OrderHistory(ctx context.Context) ([]Order, error) {
	var out struct {
		Count    int     `json:"count"`
		Bookings []Order `json:"bookings"`
	}
	if err := c.get(ctx, "/user/bookings/", &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// GetOrder fetches one confirmed booking.  The backend scopes the lookup to
// the credential's owner, so a foreign id comes back as 404.
func (c *Client) GetOrder(ctx context.Context, bookingID uint64) (*Order, error) {
	var out Order
	if err := c.get(ctx, fmt.Sprintf("/user/bookings/%d/", bookingID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder cancels a confirmed booking whose showing has not started and
// returns the refunded seat labels.
func (c *Client) CancelOrder(ctx context.Context, bookingID uint64) ([]string, error) {
	var out struct {
		Message       string   `json:"message"`
		RefundedSeats []string `json:"refunded_seats"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/bookings/%d/", bookingID), nil, &out); err != nil {
		return nil, err
	}
	return out.RefundedSeats, nil
}
