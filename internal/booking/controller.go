package booking

import "sync"

// Controller owns the view state of one booking session: the ticket counts
// per age category, the ordered seat selection, and the latest price
// preview.  It enforces the joint invariant that the number of selected
// seats never exceeds the number of purchased tickets, synchronously on
// every mutation.  All methods are safe for concurrent use; the controller
// performs no network I/O.
type Controller struct {
	mu        sync.Mutex
	showingID uint64
	seatMap   SeatMap
	tickets   TicketSelection
	seats     []string // selection order; order drives category assignment
	promoCode string
	preview   *PricePreview
	previewSeq uint64 // last issued preview request number
}

// NewController creates a controller for the given showing with an empty
// ticket and seat selection.  seatMap is the read-only availability
// snapshot taken at page entry.
func NewController(showingID uint64, seatMap SeatMap) *Controller {
	return &Controller{
		showingID: showingID,
		seatMap:   seatMap,
		tickets:   TicketSelection{},
	}
}

// ShowingID returns the showing this controller books seats for.
func (c *Controller) ShowingID() uint64 { return c.showingID }

// ChangeTicketCount applies a delta to one category's count, clamping at
// zero.  When the new total drops below the current seat-selection size,
// seats are removed from the tail (most recently selected first) until the
// invariant holds again, so the user's earliest selections survive.
func (c *Controller) ChangeTicketCount(cat AgeCategory, delta int) error {
	if !ValidCategory(cat) {
		return ErrUnknownCategory
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.tickets[cat] + delta
	if n < 0 {
		n = 0
	}
	c.tickets[cat] = n
	if total := c.tickets.Total(); len(c.seats) > total {
		c.seats = c.seats[:total]
	}
	return nil
}

// ToggleSeat selects or deselects the seat with the given id.
//
// An unavailable seat is an inert target: toggling it is a no-op, not an
// error.  Deselecting is always allowed.  Selecting requires a free ticket
// slot, otherwise a *SelectionLimitError is returned and the selection is
// left unchanged.  On success the seat is appended to the end of the
// selection, preserving order for category assignment.
func (c *Controller) ToggleSeat(seatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	seat, ok := c.findSeat(seatID)
	if !ok {
		return ErrUnknownSeat
	}
	if !seat.IsAvailable {
		return nil
	}
	for i, id := range c.seats {
		if id == seatID {
			c.seats = append(c.seats[:i], c.seats[i+1:]...)
			return nil
		}
	}
	if total := c.tickets.Total(); len(c.seats) >= total {
		return &SelectionLimitError{TotalTickets: total}
	}
	c.seats = append(c.seats, seatID)
	return nil
}

func (c *Controller) findSeat(seatID string) (Seat, bool) {
	for _, row := range c.seatMap {
		for _, s := range row {
			if s.SeatID == seatID {
				return s, true
			}
		}
	}
	return Seat{}, false
}

// BuildSubmissionPayload maps the current selection to ordered seat/category
// pairs: category labels are expanded in declared order (Adult, Child,
// Senior) repeated by their counts, then zipped positionally with the seat
// selection in selection order.  The Nth selected seat takes the Nth label.
// A seat with no matching label (impossible while the invariant holds, but
// tolerated) defaults to Adult.  The result length always equals the
// number of selected seats.
func (c *Controller) BuildSubmissionPayload() []SeatAssignment {
	c.mu.Lock()
	defer c.mu.Unlock()
	labels := make([]AgeCategory, 0, c.tickets.Total())
	for _, cat := range Categories {
		for i := 0; i < c.tickets[cat]; i++ {
			labels = append(labels, cat)
		}
	}
	out := make([]SeatAssignment, 0, len(c.seats))
	for i, id := range c.seats {
		cat := Adult
		if i < len(labels) {
			cat = labels[i]
		}
		out = append(out, SeatAssignment{SeatID: id, AgeCategory: cat})
	}
	return out
}

// ValidateSubmission checks the client-side gate ahead of a booking call:
// at least one ticket, and every ticket matched to a seat.  Payment
// completeness is validated separately by the checkout sub-flow.  A nil
// return means the draft itself is submittable.
func (c *Controller) ValidateSubmission() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.tickets.Total()
	if total == 0 {
		return &IncompleteCheckoutError{Missing: "tickets"}
	}
	if len(c.seats) != total {
		return &IncompleteCheckoutError{Missing: "seat selection"}
	}
	return nil
}

// SetPromoCode records the promo code attached to the draft.  The code is
// carried on every preview and on the final submission; validity is decided
// by the backend.
func (c *Controller) SetPromoCode(code string) {
	c.mu.Lock()
	c.promoCode = code
	c.mu.Unlock()
}

// PromoCode returns the promo code currently attached to the draft.
func (c *Controller) PromoCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.promoCode
}

// NextPreviewSeq issues the sequence number for a new preview request.
// Responses are correlated back through ApplyPreview; anything but the
// latest issued number is discarded, so a slow response can never
// overwrite a fresher quote.
func (c *Controller) NextPreviewSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previewSeq++
	return c.previewSeq
}

// ApplyPreview installs a preview result if seq is still the latest issued
// request number.  It reports whether the preview was accepted.  A failed
// preview never reaches this point, so the previous preview survives
// rejected promo codes.
func (c *Controller) ApplyPreview(seq uint64, p *PricePreview) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.previewSeq {
		return false
	}
	c.preview = p
	return true
}

// StillLatest reports whether seq is the most recently issued preview
// request number.  Failure paths use it so a slow, already superseded
// request cannot install its error message.
func (c *Controller) StillLatest(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.previewSeq
}

// Preview returns the most recent successful price preview, or nil when no
// preview has completed yet.
func (c *Controller) Preview() *PricePreview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Tickets returns a copy of the current ticket selection.
func (c *Controller) Tickets() TicketSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(TicketSelection, len(c.tickets))
	for k, v := range c.tickets {
		out[k] = v
	}
	return out
}

// Seats returns a copy of the seat selection in selection order.
func (c *Controller) Seats() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.seats))
	copy(out, c.seats)
	return out
}

// TotalTickets returns the sum of all ticket counts.
func (c *Controller) TotalTickets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickets.Total()
}

// Grid projects the snapshot plus the current selection into display rows.
func (c *Controller) Grid() []GridRow {
	c.mu.Lock()
	selected := make([]string, len(c.seats))
	copy(selected, c.seats)
	c.mu.Unlock()
	return BuildGrid(c.seatMap, selected)
}
