package middleware

import (
	"net/http"
	"runtime/debug"

	perr "facilities/internal/platform/errors"
	"facilities/internal/platform/logger"
	phttp "facilities/internal/platform/net/http"
)

// Recover turns a handler panic into a logged 500 with the usual error body
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			phttp.WriteError(w, perr.New(perr.ErrorCodePanic, "internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
