package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"time"    // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The web client owns no persistent storage; the
// ticketing backend referenced by BackendBaseURL is the system of record for
// movies, showings, seats, bookings and payment cards.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	BackendBaseURL  string        // base URL of the ticketing backend REST API
	BackendTimeout  time.Duration // per-request timeout for backend calls
	PreviewDebounce time.Duration // debounce window for price-preview refreshes
	BookingTTL      time.Duration // idle lifetime of a booking session
	AuthTTL         time.Duration // lifetime of a signed-in session
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Durations fall back
// to sensible defaults (a 500ms preview debounce, short-lived booking
// sessions).
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),                                  // environment (dev/test/prod)
		Port:            must("APP_PORT"),                                 // port to bind the HTTP server
		BackendBaseURL:  must("BACKEND_BASE_URL"),                         // e.g. http://127.0.0.1:8000/api
		BackendTimeout:  envDur("BACKEND_TIMEOUT", 10*time.Second),        // transport timeout for backend calls
		PreviewDebounce: envDur("PREVIEW_DEBOUNCE", 500*time.Millisecond), // price preview debounce window
		BookingTTL:      envDur("BOOKING_SESSION_TTL", 30*time.Minute),    // booking sessions are short-lived
		AuthTTL:         envDur("AUTH_SESSION_TTL", 12*time.Hour),         // signed-in session lifetime
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

