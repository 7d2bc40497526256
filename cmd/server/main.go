package main // Entry point package

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/config"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/router"
	"github.com/iliyamo/cinema-booking-web/internal/session"
)

func main() {
	// Load a local .env when present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	client := api.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	authMgr := auth.NewManager(client, cfg.AuthTTL)
	store := session.NewStore(cfg.BookingTTL)
	defer store.Close()

	// Redis backs the browse cache and the submit rate limiter; nil means
	// both degrade to pass-through.
	rdb := config.NewRedisClient()

	publish := os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != ""

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterBrowse(e, handler.NewMovieHandler(client), config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(authMgr), authMgr)
	router.RegisterBooking(e,
		handler.NewBookingHandler(authMgr, store, cfg.PreviewDebounce, publish),
		handler.NewCardHandler(authMgr),
		authMgr, config.LoadRateLimitConfig(), rdb)
	router.RegisterOrders(e, handler.NewOrderHandler(authMgr), authMgr)
	router.RegisterAdmin(e, handler.NewAdminHandler(authMgr), authMgr)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{
		"addr":    addr,
		"env":     cfg.Env,
		"backend": cfg.BackendBaseURL,
	}).Info("starting cinema booking web client")

	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
