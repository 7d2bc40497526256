// Package queue defines message payloads published to the message broker.
package queue

// BookingPlacedEvent is published after the backend accepts a booking
// submission.  Downstream consumers (confirmation email, analytics) act on
// it; the web client itself never reads it back.
type BookingPlacedEvent struct {
	BookingID  uint64   `json:"booking_id"`
	ShowingID  uint64   `json:"showing_id"`
	MovieTitle string   `json:"movie_title"`
	SeatIDs    []string `json:"seat_ids"`
	FinalPrice float64  `json:"final_price"`
	Username   string   `json:"username"`
	PlacedAt   string   `json:"placed_at"`
}
