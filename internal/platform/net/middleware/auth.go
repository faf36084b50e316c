package middleware

import (
	"net/http"
	"strings"

	perr "facilities/internal/platform/errors"
	"facilities/internal/platform/logger"
	phttp "facilities/internal/platform/net/http"
)

// TokenFunc verifies a bearer token and returns the subject it was issued to
type TokenFunc func(token string) (subject string, err error)

// Auth rejects requests without a bearer token that verify accepts
// the subject is added to the request logger
func Auth(verify TokenFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				phttp.WriteError(w, perr.New(perr.ErrorCodeUnauthorized, "missing bearer token"))
				return
			}
			sub, err := verify(token)
			if err != nil {
				logger.C(r.Context()).Debug().Err(err).Msg("token rejected")
				phttp.WriteError(w, perr.New(perr.ErrorCodeUnauthorized, "invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(logger.WithUser(r.Context(), sub)))
		})
	}
}

// bearer accepts "Bearer <token>" with any casing of the scheme
func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
