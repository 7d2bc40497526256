package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// AdminHandler proxies the admin console: movies, promotions and showtime
// scheduling.  All validation (duplicate titles, overlapping showtimes,
// promotion windows) happens on the backend and is relayed verbatim, so a
// scheduling conflict reads exactly as the backend phrased it.
type AdminHandler struct {
	Auth *auth.Manager
}

func NewAdminHandler(m *auth.Manager) *AdminHandler {
	return &AdminHandler{Auth: m}
}

// AddMovie handles POST /v1/admin/movies.
func (h *AdminHandler) AddMovie(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req api.AddMovieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_title is required"})
	}
	movie, err := h.Auth.Client(s).AddMovie(c.Request().Context(), req)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusCreated, movie)
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.Auth.Client(s).DeleteMovie(c.Request().Context(), id); err != nil {
		return relayError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddPromotion handles POST /v1/admin/promotions.
func (h *AdminHandler) AddPromotion(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req api.AddPromotionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PromoCode == "" || req.Discount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "promo_code and a positive discount are required"})
	}
	promo, err := h.Auth.Client(s).AddPromotion(c.Request().Context(), req)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusCreated, promo)
}

// DeletePromotion handles DELETE /v1/admin/promotions/:id.
func (h *AdminHandler) DeletePromotion(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid promotion id"})
	}
	if err := h.Auth.Client(s).DeletePromotion(c.Request().Context(), id); err != nil {
		return relayError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ScheduleShowing handles POST /v1/admin/showings.  The backend detects
// showroom conflicts; a 409 from it reaches the console unmodified.
func (h *AdminHandler) ScheduleShowing(c echo.Context) error {
	s, _ := middleware.SessionFrom(c)
	var req api.ScheduleShowingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.ShowroomName == "" || req.StartTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id, showroom_name and start_time are required"})
	}
	showing, err := h.Auth.Client(s).ScheduleShowing(c.Request().Context(), req)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusCreated, showing)
}
