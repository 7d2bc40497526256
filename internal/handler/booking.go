package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/checkout"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
	"github.com/iliyamo/cinema-booking-web/internal/queue"
	"github.com/iliyamo/cinema-booking-web/internal/session"
)

// BookingHandler drives the interactive booking workflow.  Each booking
// page the user opens becomes one session in the store, holding the seat
// snapshot, ticket/seat state, payment sub-flow and preview debouncer.  The
// handler routes user actions into the controller and reflects the
// resulting view state back.
type BookingHandler struct {
	Auth     *auth.Manager
	Store    *session.Store
	Debounce time.Duration // preview debounce window
	Publish  bool          // emit booking.placed events to the broker
}

func NewBookingHandler(m *auth.Manager, store *session.Store, debounce time.Duration, publish bool) *BookingHandler {
	return &BookingHandler{Auth: m, Store: store, Debounce: debounce, Publish: publish}
}

// ----- DTOs -----

type createBookingReq struct {
	MovieID  uint64 `json:"movie_id"`
	Showtime string `json:"showtime"` // route showtime string, matched against start_time
}

type ticketReq struct {
	Category booking.AgeCategory `json:"category"`
	Delta    int                 `json:"delta"`
}

type toggleSeatReq struct {
	SeatID string `json:"seat_id"`
}

type promoReq struct {
	PromoCode string `json:"promo_code"`
}

type modeReq struct {
	Mode checkout.Mode `json:"mode"`
}

type selectCardReq struct {
	PaymentCardID uint64 `json:"payment_card_id"`
}

type checkoutView struct {
	Mode  checkout.Mode   `json:"mode"`
	Cards []checkout.Card `json:"cards"`
}

type bookingView struct {
	BookingSessionID string                  `json:"booking_session_id"`
	Movie            api.Movie               `json:"movie"`
	Showing          api.Showing             `json:"showing"`
	Tickets          booking.TicketSelection `json:"tickets"`
	TotalTickets     int                     `json:"total_tickets"`
	Seats            []string                `json:"seats"`
	Grid             []booking.GridRow       `json:"grid"`
	PromoCode        string                  `json:"promo_code,omitempty"`
	PromoError       string                  `json:"promo_error,omitempty"`
	Preview          *booking.PricePreview   `json:"preview,omitempty"`
	Checkout         checkoutView            `json:"checkout"`
}

func viewOf(b *session.Booking) bookingView {
	return bookingView{
		BookingSessionID: b.ID,
		Movie:            b.Movie,
		Showing:          b.Showing,
		Tickets:          b.Ctrl.Tickets(),
		TotalTickets:     b.Ctrl.TotalTickets(),
		Seats:            b.Ctrl.Seats(),
		Grid:             b.Ctrl.Grid(),
		PromoCode:        b.Ctrl.PromoCode(),
		PromoError:       b.PromoError(),
		Preview:          b.Ctrl.Preview(),
		Checkout:         checkoutView{Mode: b.Checkout.Mode(), Cards: b.Checkout.Cards()},
	}
}

// Create handles POST /v1/bookings.  It resolves the route showtime string
// against the movie's showing list, takes the seat-availability snapshot,
// fetches saved cards for the checkout sub-flow, and opens the session with
// empty ticket and seat selections.
func (h *BookingHandler) Create(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || strings.TrimSpace(req.Showtime) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and showtime are required"})
	}
	ctx := c.Request().Context()
	client := h.Auth.Client(s)

	movie, err := client.GetMovie(ctx, req.MovieID)
	if err != nil {
		return relayError(c, err)
	}
	showings, err := client.ListShowings(ctx, req.MovieID)
	if err != nil {
		return relayError(c, err)
	}
	var showing *api.Showing
	for i := range showings {
		if showings[i].StartTime == req.Showtime {
			showing = &showings[i]
			break
		}
	}
	if showing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found for this movie"})
	}
	seatMap, err := client.GetSeatMap(ctx, showing.ShowingID)
	if err != nil {
		return relayError(c, err)
	}
	cards, err := client.ListPaymentCards(ctx)
	if err != nil {
		return relayError(c, err)
	}

	ctrl := booking.NewController(showing.ShowingID, seatMap)
	flow := checkout.NewFlow(toCheckoutCards(cards))
	b := h.Store.New(s.ID, *movie, *showing, ctrl, flow, h.Debounce)
	logrus.WithFields(logrus.Fields{
		"booking_session": b.ID,
		"showing":         showing.ShowingID,
		"user":            s.User.Username,
	}).Info("booking session opened")
	return c.JSON(http.StatusCreated, viewOf(b))
}

// Get handles GET /v1/bookings/:id and returns the current view state.
func (h *BookingHandler) Get(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	return c.JSON(http.StatusOK, viewOf(b))
}

// Tickets handles POST /v1/bookings/:id/tickets.  A shrink that strands
// selected seats truncates the selection from the tail inside the
// controller; when a preview is on display it is scheduled for refresh
// because the draft's price just changed.
func (h *BookingHandler) Tickets(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := b.Ctrl.ChangeTicketCount(req.Category, req.Delta); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.refreshPreviewIfShown(c, b)
	return c.JSON(http.StatusOK, viewOf(b))
}

// ToggleSeat handles POST /v1/bookings/:id/seats.  Unavailable seats are
// inert; over-selection returns the limit message without touching state.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req toggleSeatReq
	if err := c.Bind(&req); err != nil || req.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}
	if err := b.Ctrl.ToggleSeat(req.SeatID); err != nil {
		var limitErr *booking.SelectionLimitError
		switch {
		case errors.As(err, &limitErr):
			return c.JSON(http.StatusConflict, echo.Map{"error": limitErr.Error()})
		case errors.Is(err, booking.ErrUnknownSeat):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	h.refreshPreviewIfShown(c, b)
	return c.JSON(http.StatusOK, viewOf(b))
}

// Promo handles POST /v1/bookings/:id/promo.  The code is attached to the
// draft and a preview refresh is scheduled through the debouncer; the
// response returns immediately with the current (possibly stale) preview.
func (h *BookingHandler) Promo(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req promoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b.Ctrl.SetPromoCode(strings.TrimSpace(req.PromoCode))
	h.schedulePreview(c, b)
	return c.JSON(http.StatusAccepted, viewOf(b))
}

// CheckoutMode handles POST /v1/bookings/:id/checkout/mode.
func (h *BookingHandler) CheckoutMode(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req modeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := b.Checkout.SetMode(req.Mode); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, viewOf(b))
}

// SelectCard handles POST /v1/bookings/:id/checkout/card.
func (h *BookingHandler) SelectCard(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req selectCardReq
	if err := c.Bind(&req); err != nil || req.PaymentCardID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_card_id is required"})
	}
	if err := b.Checkout.SelectCard(req.PaymentCardID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, viewOf(b))
}

// NewCard handles POST /v1/bookings/:id/checkout/new-card.
func (h *BookingHandler) NewCard(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	var req checkout.NewCardFields
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b.Checkout.SetNewCard(req)
	return c.JSON(http.StatusOK, viewOf(b))
}

// Submit handles POST /v1/bookings/:id/submit.  The client-side gate runs
// first: no network call is made while tickets, seats or the payment method
// are incomplete.  A backend rejection is surfaced verbatim, and the
// session state is deliberately left untouched; the user restarts from a
// fresh page load since the seat snapshot cannot be repaired in place.
func (h *BookingHandler) Submit(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	if err := b.Ctrl.ValidateSubmission(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	pay, err := b.Checkout.Resolve()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	req := api.CreateBookingRequest{
		ShowingID: b.Ctrl.ShowingID(),
		Seats:     b.Ctrl.BuildSubmissionPayload(),
		PromoCode: b.Ctrl.PromoCode(),
	}
	if pay.NewCard != nil {
		req.CardNumber = pay.NewCard.CardNumber
		req.Expiration = pay.NewCard.Expiration
		req.Brand = pay.NewCard.Brand
		req.CVV = pay.NewCard.CVV
	} else {
		req.PaymentCardID = pay.PaymentCardID
	}

	conf, err := h.Auth.Client(s).CreateBooking(c.Request().Context(), req)
	if err != nil {
		return relayError(c, err)
	}

	if h.Publish {
		event := queue.BookingPlacedEvent{
			BookingID:  conf.BookingID,
			ShowingID:  b.Ctrl.ShowingID(),
			MovieTitle: b.Movie.Title,
			SeatIDs:    b.Ctrl.Seats(),
			FinalPrice: conf.FinalPrice,
			Username:   s.User.Username,
			PlacedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = queue.PublishBookingPlaced(context.Background(), event) }()
	}

	h.Store.Delete(b.ID)
	logrus.WithFields(logrus.Fields{"booking_id": conf.BookingID, "user": s.User.Username}).Info("booking placed")
	return c.JSON(http.StatusCreated, conf)
}

// Abandon handles DELETE /v1/bookings/:id.  Navigating away discards the
// draft; nothing was ever persisted.
func (h *BookingHandler) Abandon(c echo.Context) error {
	b, errResp := h.load(c)
	if b == nil {
		return errResp
	}
	h.Store.Delete(b.ID)
	return c.NoContent(http.StatusNoContent)
}

// load fetches the booking session named by the path and checks ownership.
// A nil booking means the second return value already holds the response.
func (h *BookingHandler) load(c echo.Context) (*session.Booking, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, ok := h.Store.Get(c.Param("id"))
	if !ok || b.OwnerID != s.ID {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "booking session not found"})
	}
	return b, nil
}

// refreshPreviewIfShown re-quotes the draft after a seat or ticket change,
// but only once a preview (or promo code) is in play; before that the page
// shows no price and there is nothing to go stale.
func (h *BookingHandler) refreshPreviewIfShown(c echo.Context, b *session.Booking) {
	if b.Ctrl.Preview() == nil && b.Ctrl.PromoCode() == "" {
		return
	}
	h.schedulePreview(c, b)
}

// schedulePreview arms the debounced preview request.  The sequence number
// is taken when the request is actually issued; ApplyPreview discards any
// response that is no longer the latest, so rapid input can never overwrite
// a fresh quote with a stale one.
func (h *BookingHandler) schedulePreview(c echo.Context, b *session.Booking) {
	s, _ := middleware.SessionFrom(c)
	client := h.Auth.Client(s)
	b.Preview.Schedule(func() {
		seq := b.Ctrl.NextPreviewSeq()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := client.PreviewBooking(ctx, api.PreviewRequest{
			ShowingID: b.Ctrl.ShowingID(),
			Seats:     b.Ctrl.BuildSubmissionPayload(),
			PromoCode: b.Ctrl.PromoCode(),
		})
		if err != nil {
			if !b.Ctrl.StillLatest(seq) {
				return
			}
			msg := "price preview unavailable"
			if ae, ok := api.AsAPIError(err); ok {
				msg = ae.Message
			}
			b.SetPromoError(msg)
			return
		}
		if b.Ctrl.ApplyPreview(seq, p) {
			b.SetPromoError("")
		}
	})
}

func toCheckoutCards(cards []api.PaymentCard) []checkout.Card {
	out := make([]checkout.Card, 0, len(cards))
	for _, pc := range cards {
		out = append(out, checkout.Card{
			ID:         pc.ID,
			Brand:      pc.Brand,
			LastFour:   lastFour(pc.MaskedCardNumber),
			Expiration: pc.Expiration,
		})
	}
	return out
}

// lastFour extracts the trailing digits of a masked card number.
func lastFour(masked string) string {
	digits := make([]rune, 0, len(masked))
	for _, r := range masked {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
