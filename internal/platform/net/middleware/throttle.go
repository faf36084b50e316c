package middleware

import (
	"net/http"
	"strconv"
	"time"

	perr "facilities/internal/platform/errors"
	phttp "facilities/internal/platform/net/http"
)

// Throttle caps concurrent requests at limit
// up to backlog more wait for a slot for at most wait; the rest get 429 as a JSON error body
func Throttle(limit, backlog int, wait time.Duration) Middleware {
	if limit < 1 {
		panic("middleware: Throttle limit must be at least 1")
	}
	if backlog < 0 {
		backlog = 0
	}
	slots := make(chan struct{}, limit)
	queue := make(chan struct{}, limit+backlog)
	retryAfter := strconv.Itoa(max(1, int(wait.Round(time.Second)/time.Second)))

	reject := func(w http.ResponseWriter) {
		w.Header().Set("Retry-After", retryAfter)
		phttp.WriteError(w, perr.New(perr.ErrorCodeTooManyRequests, "too many requests, retry shortly"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case queue <- struct{}{}:
			default:
				reject(w)
				return
			}
			defer func() { <-queue }()

			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case slots <- struct{}{}:
			case <-timer.C:
				reject(w)
				return
			case <-r.Context().Done():
				phttp.WriteError(w, perr.New(perr.ErrorCodeUnavailable, "request canceled"))
				return
			}
			defer func() { <-slots }()

			next.ServeHTTP(w, r)
		})
	}
}
