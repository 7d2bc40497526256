package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// maxCards caps saved payment cards per account, same limit the original
// payment page enforced before calling the backend.
const maxCards = 4

// CardHandler serves payment-card management.  Cards live on the backend;
// the booking workflow consumes them read-only via the checkout sub-flow.
type CardHandler struct {
	Auth *auth.Manager
}

func NewCardHandler(m *auth.Manager) *CardHandler {
	return &CardHandler{Auth: m}
}

// List handles GET /v1/payment-cards.
func (h *CardHandler) List(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	cards, err := h.Auth.Client(s).ListPaymentCards(c.Request().Context())
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cards})
}

// Add handles POST /v1/payment-cards.  The card count limit is checked
// client-side first so the user gets a clear message before the backend
// round trip.
func (h *CardHandler) Add(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req api.AddCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CardNumber == "" || req.Expiration == "" || req.Brand == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand, card number and expiration are required"})
	}
	client := h.Auth.Client(s)
	ctx := c.Request().Context()
	existing, err := client.ListPaymentCards(ctx)
	if err != nil {
		return relayError(c, err)
	}
	if len(existing) >= maxCards {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card limit reached (4 cards maximum)"})
	}
	card, err := client.AddPaymentCard(ctx, req)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

// Delete handles DELETE /v1/payment-cards/:id.
func (h *CardHandler) Delete(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid card id"})
	}
	if err := h.Auth.Client(s).DeletePaymentCard(c.Request().Context(), id); err != nil {
		return relayError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
