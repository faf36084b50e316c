// Package middleware holds the http middleware the api stacks in front of modules
// thin chi adapters live here next to the in house ones
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the net/http middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID propagates X-Request-Id or mints one
func RequestID(next http.Handler) http.Handler { return chimw.RequestID(next) }

// RealIP trusts X-Forwarded-For and X-Real-IP from the proxy in front
func RealIP(next http.Handler) http.Handler { return chimw.RealIP(next) }

// NoCache forbids caching; every snapshot is computed fresh
func NoCache(next http.Handler) http.Handler { return chimw.NoCache(next) }

// StripSlashes serves /dashboard/ as /dashboard
func StripSlashes(next http.Handler) http.Handler { return chimw.StripSlashes(next) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Compress gzips responses at level
func Compress(level int) Middleware { return chimw.Compress(level) }

// Heartbeat answers GET path with 200 before routing, for load balancers
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORS allows GET from origins; empty origins allows any
func CORS(origins []string) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
