// Package checkout implements the payment sub-flow of the booking workflow:
// choosing between a saved card and freshly entered card fields, and gating
// submission until the chosen method is complete.  The gate is duplicated
// client-side even though the backend validates again: an incomplete card
// must never cost the user a network round trip.
package checkout

import (
	"strings"
	"sync"

	"github.com/iliyamo/cinema-booking-web/internal/booking"
)

// Mode names which payment entry view is active.
type Mode string

const (
	SavedCard Mode = "saved_card"
	NewCard   Mode = "new_card"
)

// Card is a saved payment card fetched from the backend.  The booking
// workflow never mutates cards; management lives on the payment-cards page.
type Card struct {
	ID         uint64 `json:"id"`
	Brand      string `json:"brand"`
	LastFour   string `json:"last_four"`
	Expiration string `json:"expiration"`
}

// NewCardFields holds the four fields required to pay with a card that is
// not on file.  All four must be non-empty before submission.
type NewCardFields struct {
	CardNumber string `json:"card_number"`
	Expiration string `json:"expiration"`
	Brand      string `json:"brand"`
	CVV        string `json:"cvv"`
}

// Selection is the resolved payment method attached to a submission.
// Exactly one of PaymentCardID / NewCard is set.
type Selection struct {
	PaymentCardID uint64
	NewCard       *NewCardFields
}

// Flow is the two-state payment sub-flow.  The initial mode is SavedCard
// when at least one saved card exists, otherwise the flow is forced into
// NewCard.  Switching back to SavedCard is only possible while saved cards
// exist.
type Flow struct {
	mu     sync.Mutex
	mode   Mode
	cards  []Card
	cardID uint64
	fields NewCardFields
}

// NewFlow builds a flow over the user's saved cards.  With at least one
// card on file the first card is preselected, matching the original
// client's default.
func NewFlow(cards []Card) *Flow {
	f := &Flow{cards: cards, mode: NewCard}
	if len(cards) > 0 {
		f.mode = SavedCard
		f.cardID = cards[0].ID
	}
	return f
}

// Mode returns the active payment entry view.
func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Cards returns the saved cards the flow was built with.
func (f *Flow) Cards() []Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Card, len(f.cards))
	copy(out, f.cards)
	return out
}

// SetMode switches between saved-card and new-card entry.  SavedCard is
// rejected when no cards are on file.
func (f *Flow) SetMode(m Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch m {
	case NewCard:
		f.mode = NewCard
		return nil
	case SavedCard:
		if len(f.cards) == 0 {
			return &booking.IncompleteCheckoutError{Missing: "saved payment card"}
		}
		f.mode = SavedCard
		return nil
	default:
		return &booking.IncompleteCheckoutError{Missing: "payment mode"}
	}
}

// SelectCard chooses one of the saved cards by id and switches the flow to
// SavedCard mode.
func (f *Flow) SelectCard(id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.ID == id {
			f.cardID = id
			f.mode = SavedCard
			return nil
		}
	}
	return &booking.IncompleteCheckoutError{Missing: "saved payment card"}
}

// SetNewCard records freshly entered card fields and switches the flow to
// NewCard mode.  Fields are trimmed; completeness is checked at Resolve.
func (f *Flow) SetNewCard(fields NewCardFields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = NewCardFields{
		CardNumber: strings.TrimSpace(fields.CardNumber),
		Expiration: strings.TrimSpace(fields.Expiration),
		Brand:      strings.TrimSpace(fields.Brand),
		CVV:        strings.TrimSpace(fields.CVV),
	}
	f.mode = NewCard
}

// Resolve returns the payment method for submission, or an
// IncompleteCheckoutError naming the first missing piece.
func (f *Flow) Resolve() (Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == SavedCard {
		if f.cardID == 0 {
			return Selection{}, &booking.IncompleteCheckoutError{Missing: "saved payment card"}
		}
		return Selection{PaymentCardID: f.cardID}, nil
	}
	switch {
	case f.fields.CardNumber == "":
		return Selection{}, &booking.IncompleteCheckoutError{Missing: "card number"}
	case f.fields.Expiration == "":
		return Selection{}, &booking.IncompleteCheckoutError{Missing: "card expiration"}
	case f.fields.Brand == "":
		return Selection{}, &booking.IncompleteCheckoutError{Missing: "card brand"}
	case f.fields.CVV == "":
		return Selection{}, &booking.IncompleteCheckoutError{Missing: "card cvv"}
	}
	fields := f.fields
	return Selection{NewCard: &fields}, nil
}
