// Package booking implements the interactive seat/ticket booking workflow:
// the view-state controller that owns ticket counts and seat selection, the
// seat-grid projection used for display, and the debounced price-preview
// scheduling.  The package performs no I/O of its own; the backend remains
// the system of record for availability, pricing and conflict detection.
package booking

// AgeCategory is a ticket class that determines the price tier.  Categories
// are assigned to seats positionally at submission time.
type AgeCategory string

// The set of age categories is fixed and closed.
const (
	Adult  AgeCategory = "Adult"
	Child  AgeCategory = "Child"
	Senior AgeCategory = "Senior"
)

// Categories lists every age category in declared order.  Payload
// construction expands ticket counts in exactly this order, so the order is
// part of the submission contract, not a cosmetic choice.
var Categories = [...]AgeCategory{Adult, Child, Senior}

// ValidCategory reports whether cat is one of the declared categories.
func ValidCategory(cat AgeCategory) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// TicketSelection maps each age category to a non-negative count.
type TicketSelection map[AgeCategory]int

// Total returns the sum of all ticket counts.
func (t TicketSelection) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// Seat mirrors one seat record from the backend seat map.
//
// Fields:
//
//	SeatID      – opaque identifier assigned by the backend.
//	SeatNumber  – position of the seat within its row.
//	IsAvailable – whether the seat can still be selected.
type Seat struct {
	SeatID      string `json:"seat_id"`
	SeatNumber  uint32 `json:"seat_number"`
	IsAvailable bool   `json:"is_available"`
}

// SeatMap maps a row label (e.g. "A") to the seats in that row, in the
// order supplied by the backend.  The map is a read-only snapshot for the
// duration of a booking session: it is never refreshed in place, and a seat
// shown available here may still be rejected by the backend at submission.
type SeatMap map[string][]Seat

// SeatAssignment pairs a selected seat with the age category it was
// assigned.  A slice of these forms the seats portion of both the price
// preview and the final booking request.
type SeatAssignment struct {
	SeatID      string      `json:"seat_id"`
	AgeCategory AgeCategory `json:"age_category"`
}

// PreviewSeat is the per-seat line of a price preview as returned by the
// backend.
type PreviewSeat struct {
	SeatDisplay string  `json:"seat_display"`
	AgeCategory string  `json:"age_category"`
	Price       float64 `json:"price"`
}

// PricePreview is the backend-computed projection of the current draft.
// It is stale the instant the draft changes and is only replaced by a newer
// successful preview; a failed preview request leaves the previous value
// untouched.
type PricePreview struct {
	BasePrice        float64       `json:"base_price"`
	DiscountAmount   float64       `json:"discount_amount,omitempty"`
	PromotionApplied bool          `json:"promotion_applied,omitempty"`
	DiscountDisplay  string        `json:"discount_display,omitempty"`
	FinalPrice       float64       `json:"final_price"`
	Seats            []PreviewSeat `json:"seats,omitempty"`
}
