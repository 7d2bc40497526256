package booking

// errors.go defines the error types surfaced by the booking workflow.
// These are user-recoverable conditions, not failures: handlers translate
// them into alert-style messages and the controller state stays intact.

import (
	"errors"
	"fmt"
)

// ErrUnknownSeat is returned when a toggle names a seat id that does not
// exist in the session's seat-map snapshot.
var ErrUnknownSeat = errors.New("seat not found in seat map")

// ErrUnknownCategory is returned when a ticket-count change names a
// category outside the declared set.
var ErrUnknownCategory = errors.New("unknown age category")

// SelectionLimitError is returned when selecting a seat would exceed the
// number of purchased tickets.  TotalTickets distinguishes the "no tickets
// yet" prompt from the numeric-limit message.
type SelectionLimitError struct {
	TotalTickets int
}

func (e *SelectionLimitError) Error() string {
	if e.TotalTickets == 0 {
		return "add tickets before selecting seats"
	}
	return fmt.Sprintf("seat selection limit reached (%d)", e.TotalTickets)
}

// IncompleteCheckoutError blocks a booking submission before any network
// call is made.  Missing names the piece that is absent (tickets, seats, or
// a specific payment field).
type IncompleteCheckoutError struct {
	Missing string
}

func (e *IncompleteCheckoutError) Error() string {
	return "incomplete checkout: " + e.Missing
}
