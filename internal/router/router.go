package router // package router defines how HTTP routes are registered for the web client

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/config"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the public browse surface.  These routes carry
// no credential and sit behind the Redis response cache so repeated page
// loads are absorbed before reaching the backend.
func RegisterBrowse(e *echo.Echo, m *handler.MovieHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/movies")
	g.Use(middleware.BrowseCache(cacheCfg, rdb))
	g.GET("", m.ListAll)
	g.GET("/currently-running", m.CurrentlyRunning)
	g.GET("/coming-soon", m.ComingSoon)
	g.GET("/search", m.Search)
	g.GET("/genre/:genre", m.ByGenre)
	g.GET("/:id", m.Get)
	g.GET("/:id/showings", m.Showings)
}

// RegisterAuth registers sign-in, registration, account-recovery and
// session endpoints.  Login/resume/register/verify/forgot-password live
// outside the session middleware; everything touching an established
// account requires a live session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *auth.Manager) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/resume", a.Resume)
	g.POST("/register", a.Register)
	g.POST("/verify", a.Verify)
	g.POST("/forgot-password", a.ForgotPassword)

	authed := e.Group("/v1")
	authed.Use(middleware.RequireSession(m))
	authed.POST("/auth/logout", a.Logout)
	authed.POST("/auth/reset-password", a.ResetPassword)
	authed.GET("/me", a.Me)
	authed.PUT("/me", a.UpdateProfile)
}

// RegisterOrders registers the confirmed-booking history routes.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, m *auth.Manager) {
	g := e.Group("/v1/orders")
	g.Use(middleware.RequireSession(m))
	g.GET("", o.List)
	g.GET("/:id", o.Get)
	g.DELETE("/:id", o.Cancel)
}

// RegisterBooking registers the booking workflow and payment-card routes.
// Everything here requires a signed-in session; the submit endpoint is
// additionally rate limited because it is the only state-changing backend
// call the client makes.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, cards *handler.CardHandler, m *auth.Manager, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.RequireSession(m))

	g.POST("/bookings", b.Create)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/tickets", b.Tickets)
	g.POST("/bookings/:id/seats", b.ToggleSeat)
	g.POST("/bookings/:id/promo", b.Promo)
	g.POST("/bookings/:id/checkout/mode", b.CheckoutMode)
	g.POST("/bookings/:id/checkout/card", b.SelectCard)
	g.POST("/bookings/:id/checkout/new-card", b.NewCard)
	g.POST("/bookings/:id/submit", b.Submit, middleware.SubmitLimiter(rlCfg, rdb))
	g.DELETE("/bookings/:id", b.Abandon)

	g.GET("/payment-cards", cards.List)
	g.POST("/payment-cards", cards.Add)
	g.DELETE("/payment-cards/:id", cards.Delete)
}

// RegisterAdmin registers the admin console proxies.  RequireAdmin runs
// after RequireSession; actual authorization is still enforced by the
// backend on every proxied call.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, m *auth.Manager) {
	g := e.Group("/v1/admin")
	g.Use(middleware.RequireSession(m))
	g.Use(middleware.RequireAdmin())

	g.POST("/movies", a.AddMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)
	g.POST("/promotions", a.AddPromotion)
	g.DELETE("/promotions/:id", a.DeletePromotion)
	g.POST("/showings", a.ScheduleShowing)
}
