// Package handler exposes the web client's HTTP surface: movie browsing,
// sign-in, the interactive booking workflow, payment-card management and
// the admin console proxies.  Handlers never let a backend failure escape
// as an unhandled error: every failure becomes a user-visible JSON
// message.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
)

// relayError converts a backend call failure into a response.  Backend
// rejections keep their status and message verbatim; transport failures
// collapse into a single blocking 502; the client offers no retry beyond a
// full reload.
func relayError(c echo.Context, err error) error {
	if ae, ok := api.AsAPIError(err); ok {
		return c.JSON(ae.Status, echo.Map{"error": ae.Message})
	}
	logrus.WithError(err).WithField("path", c.Path()).Error("backend call failed")
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend unavailable"})
}
