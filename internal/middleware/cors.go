package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The search surface is read-only apart from session capture, so only GET,
// POST and preflight OPTIONS are allowed. X-Access-Key carries the access key
// for API clients that do not hold a session cookie.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Access-Key"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
