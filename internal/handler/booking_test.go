package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/config"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
	"github.com/iliyamo/cinema-booking-web/internal/router"
	"github.com/iliyamo/cinema-booking-web/internal/session"
)

// ticketingBackend fakes the backend REST API for the full booking flow.
type ticketingBackend struct {
	createCalls  atomic.Int64
	previewCalls atomic.Int64
	lastCreate   atomic.Value // api.CreateBookingRequest
	rejectCreate atomic.Value // string; non-empty means reject with 409
}

func (tb *ticketingBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.LoginResponse{
			Access: "tok", Refresh: "ref",
			User: api.User{ID: 42, Username: "moviegoer"},
		})
	})
	mux.HandleFunc("/movies/5/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Movie{MovieID: 5, Title: "Alien", Status: "currently_running"})
	})
	mux.HandleFunc("/movies/5/showings/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Showing{
			{ShowingID: 11, MovieID: 5, StartTime: "2026-09-01T19:00:00Z", ShowroomName: "Room 1"},
			{ShowingID: 12, MovieID: 5, StartTime: "2026-09-01T22:00:00Z", ShowroomName: "Room 1"},
		})
	})
	mux.HandleFunc("/showings/11/seats/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(booking.SeatMap{
			"A": {
				{SeatID: "A1", SeatNumber: 1, IsAvailable: true},
				{SeatID: "A2", SeatNumber: 2, IsAvailable: true},
				{SeatID: "A3", SeatNumber: 3, IsAvailable: false},
			},
		})
	})
	mux.HandleFunc("/auth/payment-cards/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.PaymentCard{
			{ID: 7, Brand: "Visa", Expiration: "2027-04-01", MaskedCardNumber: "**** **** **** 4242"},
		})
	})
	mux.HandleFunc("/bookings/preview/", func(w http.ResponseWriter, r *http.Request) {
		tb.previewCalls.Add(1)
		var req api.PreviewRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.PromoCode == "BOGUS" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid promo code"}`))
			return
		}
		if req.PromoCode == "EXPIRED99" {
			// A straggler rejection that arrives after the promo has
			// already been corrected.
			time.Sleep(300 * time.Millisecond)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid promo code"}`))
			return
		}
		p := booking.PricePreview{BasePrice: float64(10 * len(req.Seats)), FinalPrice: float64(10 * len(req.Seats))}
		if req.PromoCode != "" {
			p.PromotionApplied = true
			p.DiscountAmount = 2
			p.FinalPrice -= 2
		}
		json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("/bookings/", func(w http.ResponseWriter, r *http.Request) {
		tb.createCalls.Add(1)
		var req api.CreateBookingRequest
		json.NewDecoder(r.Body).Decode(&req)
		tb.lastCreate.Store(req)
		if msg, _ := tb.rejectCreate.Load().(string); msg != "" {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": msg})
			return
		}
		json.NewEncoder(w).Encode(api.BookingConfirmation{BookingID: 900, FinalPrice: 20})
	})
	return mux
}

type testApp struct {
	e       *echo.Echo
	backend *ticketingBackend
	mgr     *auth.Manager
	session string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	tb := &ticketingBackend{}
	srv := httptest.NewServer(tb.handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 2*time.Second)
	mgr := auth.NewManager(client, time.Hour)
	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)

	s, err := mgr.SignIn(context.Background(), "moviegoer", "pw")
	require.NoError(t, err)

	e := echo.New()
	b := handler.NewBookingHandler(mgr, store, 50*time.Millisecond, false)
	cards := handler.NewCardHandler(mgr)
	router.RegisterBooking(e, b, cards, mgr, config.RateLimitConfig{}, nil)

	return &testApp{e: e, backend: tb, mgr: mgr, session: s.ID}
}

func (a *testApp) request(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.SessionHeader, a.session)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	}
	return rec, out
}

func (a *testApp) openBooking(t *testing.T) string {
	t.Helper()
	rec, out := a.request(t, http.MethodPost, "/v1/bookings",
		`{"movie_id":5,"showtime":"2026-09-01T19:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, _ := out["booking_session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestBookingFlow_CreateReturnsSnapshotAndCards(t *testing.T) {
	a := newTestApp(t)
	rec, out := a.request(t, http.MethodPost, "/v1/bookings",
		`{"movie_id":5,"showtime":"2026-09-01T19:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "Alien", out["movie"].(map[string]interface{})["movie_title"])
	assert.Equal(t, float64(11), out["showing"].(map[string]interface{})["showing_id"])
	assert.Equal(t, float64(0), out["total_tickets"])

	grid := out["grid"].([]interface{})
	require.Len(t, grid, 1)
	seats := grid[0].(map[string]interface{})["seats"].([]interface{})
	require.Len(t, seats, 3)
	assert.Equal(t, "occupied", seats[2].(map[string]interface{})["state"])

	co := out["checkout"].(map[string]interface{})
	assert.Equal(t, "saved_card", co["mode"])
	cards := co["cards"].([]interface{})
	require.Len(t, cards, 1)
	assert.Equal(t, "4242", cards[0].(map[string]interface{})["last_four"])
}

func TestBookingFlow_UnknownShowtime(t *testing.T) {
	a := newTestApp(t)
	rec, out := a.request(t, http.MethodPost, "/v1/bookings",
		`{"movie_id":5,"showtime":"2026-12-25T00:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "showtime not found for this movie", out["error"])
}

func TestBookingFlow_RequiresSession(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingFlow_SeatSelectionGate(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	// No tickets yet: seat clicks are refused with the zero-ticket message.
	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "add tickets before selecting seats", out["error"])

	rec, _ = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"A1"}, out["seats"].([]interface{}))

	// A second seat with one ticket trips the limit.
	rec, out = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, out["error"], "(1)")

	// Occupied seats are inert, not errors.
	rec, out = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"A1"}, out["seats"].([]interface{}))

	rec, _ = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"Z9"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingFlow_TicketShrinkTruncatesSeats(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Child","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A2"}`)

	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Child","delta":-1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"A1"}, out["seats"].([]interface{}))
	assert.Equal(t, float64(1), out["total_tickets"])
}

func TestBookingFlow_PromoPreviewDebounced(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	rec, _ := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":"SUMMER20"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
		p, ok := out["preview"].(map[string]interface{})
		return ok && p["promotion_applied"] == true && p["final_price"] == float64(8)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestBookingFlow_RejectedPromoKeepsPreviousPreview(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":""}`)

	require.Eventually(t, func() bool {
		_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
		_, ok := out["preview"].(map[string]interface{})
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":"BOGUS"}`)

	assert.Eventually(t, func() bool {
		_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
		p, ok := out["preview"].(map[string]interface{})
		return ok && out["promo_error"] == "invalid promo code" && p["final_price"] == float64(10)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestBookingFlow_StalePreviewFailureDiscarded(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	// Kick off the slow rejection, let it reach the backend, then correct
	// the promo while the rejection is still in flight.
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":"EXPIRED99"}`)
	time.Sleep(120 * time.Millisecond)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":"SUMMER20"}`)

	require.Eventually(t, func() bool {
		_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
		p, ok := out["preview"].(map[string]interface{})
		return ok && p["final_price"] == float64(8)
	}, 2*time.Second, 20*time.Millisecond)

	// Give the straggler time to land; its rejection belongs to a superseded
	// request and must not replace the error state of the corrected promo.
	time.Sleep(400 * time.Millisecond)
	_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
	p, ok := out["preview"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(8), p["final_price"])
	assert.Empty(t, out["promo_error"])
}

func TestBookingFlow_DebounceCoalescesRapidInput(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	// Fire promo changes back to back; only the trailing edit should reach
	// the backend.
	for i := 0; i < 5; i++ {
		a.request(t, http.MethodPost, "/v1/bookings/"+id+"/promo", `{"promo_code":"SUMMER20"}`)
	}
	require.Eventually(t, func() bool {
		_, out := a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
		_, ok := out["preview"].(map[string]interface{})
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, int64(1), a.backend.previewCalls.Load())
}

func TestBookingFlow_SubmitGateSkipsNetwork(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "tickets")
	assert.Equal(t, int64(0), a.backend.createCalls.Load())

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":2}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	rec, out = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "seat selection")
	assert.Equal(t, int64(0), a.backend.createCalls.Load())
}

func TestBookingFlow_SubmitSuccessClosesSession(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Child","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A2"}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(900), out["booking_id"])

	sent := a.backend.lastCreate.Load().(api.CreateBookingRequest)
	assert.Equal(t, uint64(11), sent.ShowingID)
	assert.Equal(t, uint64(7), sent.PaymentCardID)
	require.Len(t, sent.Seats, 2)
	assert.Equal(t, "A2", sent.Seats[0].SeatID)
	assert.Equal(t, booking.Adult, sent.Seats[0].AgeCategory)
	assert.Equal(t, "A1", sent.Seats[1].SeatID)
	assert.Equal(t, booking.Child, sent.Seats[1].AgeCategory)

	// The session is gone after a successful booking.
	rec, _ = a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingFlow_BackendRejectionRelayedVerbatim(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	a.backend.rejectCreate.Store("seat A1 was just taken")
	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat A1 was just taken", out["error"])

	// Rejection leaves the draft intact for the user to read against the page.
	rec, out = a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"A1"}, out["seats"].([]interface{}))
}

func TestBookingFlow_NewCardCheckout(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/tickets", `{"category":"Adult","delta":1}`)
	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/seats", `{"seat_id":"A1"}`)

	rec, out := a.request(t, http.MethodPost, "/v1/bookings/"+id+"/checkout/new-card",
		`{"card_number":"4111111111111111","expiration":"2027-01-01","brand":"Visa"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new_card", out["checkout"].(map[string]interface{})["mode"])

	// CVV is still missing; the gate fires before any network call.
	rec, out = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "cvv")
	assert.Equal(t, int64(0), a.backend.createCalls.Load())

	a.request(t, http.MethodPost, "/v1/bookings/"+id+"/checkout/new-card",
		`{"card_number":"4111111111111111","expiration":"2027-01-01","brand":"Visa","cvv":"123"}`)
	rec, _ = a.request(t, http.MethodPost, "/v1/bookings/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	sent := a.backend.lastCreate.Load().(api.CreateBookingRequest)
	assert.Zero(t, sent.PaymentCardID)
	assert.Equal(t, "4111111111111111", sent.CardNumber)
	assert.Equal(t, "123", sent.CVV)
}

func TestBookingFlow_OwnershipEnforced(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	// A second signed-in user cannot read the first user's booking session.
	other, err := a.mgr.SignIn(context.Background(), "intruder", "pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/"+id, nil)
	req.Header.Set(middleware.SessionHeader, other.ID)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingFlow_Abandon(t *testing.T) {
	a := newTestApp(t)
	id := a.openBooking(t)

	rec, _ := a.request(t, http.MethodDelete, "/v1/bookings/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = a.request(t, http.MethodGet, "/v1/bookings/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
