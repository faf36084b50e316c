// Package http is the http edge of the platform: router, server and JSON replies
// every error body is {"error": msg}
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "facilities/internal/platform/errors"
)

// ErrorBody is the only error payload clients see
type ErrorBody struct {
	Error string `json:"error" example:"dashboard metrics unavailable"`
}

// JSON writes v as application/json with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError answers with the status mapped from err and its public message
func WriteError(w stdhttp.ResponseWriter, err error) {
	JSON(w, perr.HTTPStatus(err), ErrorBody{Error: perr.Public(err)})
}

// Handle adapts a return style handler; the value is written as is with 200
func Handle(fn func(*stdhttp.Request) (any, error)) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		out, err := fn(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		JSON(w, stdhttp.StatusOK, out)
	}
}
