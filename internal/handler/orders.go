package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// OrderHandler serves the signed-in user's confirmed booking history.
// Orders are read from the backend on every request; nothing is cached, a
// cancellation must show up immediately.
type OrderHandler struct {
	Auth *auth.Manager
}

func NewOrderHandler(m *auth.Manager) *OrderHandler {
	return &OrderHandler{Auth: m}
}

// List handles GET /v1/orders.
func (h *OrderHandler) List(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	orders, err := h.Auth.Client(s).OrderHistory(c.Request().Context())
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(orders), "items": orders})
}

// Get handles GET /v1/orders/:id.  The backend scopes the lookup to the
// caller, so someone else's order id reads as not found.
func (h *OrderHandler) Get(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Auth.Client(s).GetOrder(c.Request().Context(), id)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles DELETE /v1/orders/:id.  The backend refuses cancellation
// once the showing has started; that rejection relays verbatim.
func (h *OrderHandler) Cancel(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	seats, err := h.Auth.Client(s).CancelOrder(c.Request().Context(), id)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true, "refunded_seats": seats})
}
