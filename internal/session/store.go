// Package session keeps active booking sessions in memory.  A booking
// session exists from the moment a user opens the booking page for a
// showing until they submit, abandon, or idle past the TTL.  Sessions are
// deliberately short-lived: the seat-map snapshot inside one is never
// refreshed, so the backend's submission-time conflict check is the only
// protection against staleness.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/checkout"
)

// Booking ties together everything one booking page needs: the view-state
// controller, the payment sub-flow, the preview debouncer and the display
// context fetched at page entry.
type Booking struct {
	ID       string
	OwnerID  string // auth session that created this booking
	Movie    api.Movie
	Showing  api.Showing
	Ctrl     *booking.Controller
	Checkout *checkout.Flow
	Preview  *booking.Debouncer

	mu         sync.Mutex
	promoError string // last failed preview message, shown next to the stale preview
	lastActive time.Time
}

// SetPromoError records the user-facing message of a failed preview.  The
// previous successful preview stays in place.
func (b *Booking) SetPromoError(msg string) {
	b.mu.Lock()
	b.promoError = msg
	b.mu.Unlock()
}

// PromoError returns the last failed preview message, empty when the last
// preview succeeded.
func (b *Booking) PromoError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.promoError
}

func (b *Booking) touch(now time.Time) {
	b.mu.Lock()
	b.lastActive = now
	b.mu.Unlock()
}

func (b *Booking) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastActive
}

// Store holds active bookings and expires idle ones with a janitor
// goroutine, the in-memory analogue of expiring seat holds.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*Booking
	stop  chan struct{}
	once  sync.Once
}

// NewStore creates a store and starts its expiry janitor.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		ttl:   ttl,
		items: make(map[string]*Booking),
		stop:  make(chan struct{}),
	}
	go s.janitor()
	return s
}

// New registers a booking session and returns it with a fresh id.
func (s *Store) New(ownerID string, movie api.Movie, showing api.Showing, ctrl *booking.Controller, flow *checkout.Flow, debounce time.Duration) *Booking {
	b := &Booking{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Movie:      movie,
		Showing:    showing,
		Ctrl:       ctrl,
		Checkout:   flow,
		Preview:    booking.NewDebouncer(debounce),
		lastActive: time.Now().UTC(),
	}
	s.mu.Lock()
	s.items[b.ID] = b
	s.mu.Unlock()
	return b
}

// Get returns an active booking and refreshes its idle timer.
func (s *Store) Get(id string) (*Booking, bool) {
	s.mu.Lock()
	b, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	now := time.Now().UTC()
	if now.Sub(b.idleSince()) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	b.touch(now)
	return b, true
}

// Delete removes a booking and cancels any pending preview.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	b, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if ok {
		b.Preview.Stop()
	}
}

// Close stops the janitor.  Pending previews are left to their debouncers.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// janitor sweeps idle bookings once a minute.
func (s *Store) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now.UTC())
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	var expired []*Booking
	for id, b := range s.items {
		if now.Sub(b.idleSince()) > s.ttl {
			expired = append(expired, b)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()
	for _, b := range expired {
		b.Preview.Stop()
		logrus.WithFields(logrus.Fields{"booking_session": b.ID, "showing": b.Showing.ShowingID}).Debug("expired idle booking session")
	}
}
