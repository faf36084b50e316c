package http

import chimw "github.com/go-chi/chi/v5/middleware"

// MountProfiler serves pprof under prefix, e.g. /debug/pprof/
func MountProfiler(r Router, prefix string) {
	r.Mount(prefix, chimw.Profiler())
}
