package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/api"
)

// MovieHandler serves the public browse surface: listings, search and
// detail pages.  These are plain pass-throughs to the backend; the browse
// cache middleware in front of them absorbs repeated page loads.
type MovieHandler struct {
	API *api.Client
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(client *api.Client) *MovieHandler {
	return &MovieHandler{API: client}
}

// ListAll handles GET /v1/movies.
func (h *MovieHandler) ListAll(c echo.Context) error {
	movies, err := h.API.ListMovies(c.Request().Context())
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// CurrentlyRunning handles GET /v1/movies/currently-running.
func (h *MovieHandler) CurrentlyRunning(c echo.Context) error {
	movies, err := h.API.CurrentlyRunning(c.Request().Context())
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// ComingSoon handles GET /v1/movies/coming-soon.
func (h *MovieHandler) ComingSoon(c echo.Context) error {
	movies, err := h.API.ComingSoon(c.Request().Context())
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Search handles GET /v1/movies/search?q=...; an empty query is rejected
// rather than forwarded.
func (h *MovieHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	movies, err := h.API.SearchMovies(c.Request().Context(), q)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// ByGenre handles GET /v1/movies/genre/:genre.
func (h *MovieHandler) ByGenre(c echo.Context) error {
	genre := c.Param("genre")
	movies, err := h.API.MoviesByGenre(c.Request().Context(), genre)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	movie, err := h.API.GetMovie(c.Request().Context(), id)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// Showings handles GET /v1/movies/:id/showings, the list the booking page
// resolves its route showtime against.
func (h *MovieHandler) Showings(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	showings, err := h.API.ListShowings(c.Request().Context(), id)
	if err != nil {
		return relayError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": showings})
}
