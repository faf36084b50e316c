// Package httpkit is the route sugar and shared middleware stack modules use
package httpkit

import (
	"compress/flate"
	"net/http"
	"strings"
	"time"

	perr "facilities/internal/platform/errors"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/net/middleware"
)

// Router re-exports the platform router so modules import one package
type Router = phttp.Router

// ErrorBody re-exports the error payload for swagger annotations
type ErrorBody = phttp.ErrorBody

// CommonStack is the middleware every versioned route runs behind
// origins feed CORS; empty allows any origin
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RequestLogger,
		middleware.RealIP,
		middleware.Recover,
		middleware.NoCache,
		middleware.AccessLog(500 * time.Millisecond),
		middleware.CORS(origins),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes,
		middleware.Timeout(30 * time.Second),
	}
}

// MountAPI mounts mount under /api/{version} behind mw
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// Get registers a return style GET handler
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(fn))
}

// Only serves a return style handler at path for methods
// any other verb gets 405 with an Allow header
func Only(r Router, path string, fn func(*http.Request) (any, error), methods ...string) {
	h := phttp.Handle(fn)
	allow := strings.Join(methods, ", ")
	r.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for _, m := range methods {
			if req.Method == m {
				h(w, req)
				return
			}
		}
		w.Header().Set("Allow", allow)
		phttp.WriteError(w, perr.Newf(perr.ErrorCodeMethodNotAllowed, "method %s not allowed", req.Method))
	}))
}
