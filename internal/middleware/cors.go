// Package middleware provides reusable HTTP middleware for the travel journal API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, a browser may cache a preflight
// result. The renderer polls /cues and /state continuously, mostly with
// non-simple requests.
const preflightMaxAge = 600

// NewCORSHandler returns a middleware that applies CORS headers for the globe
// renderer, which is usually served from a different origin than the API.
// Each entry in allowedOrigins must be a full origin (scheme + host, no
// trailing slash).
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		// PUT and DELETE drive /selection, /form and /sound.
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		// Location points at a newly created journal entry.
		ExposedHeaders: []string{"X-Request-Id", "Location"},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}
