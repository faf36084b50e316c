// Package metrics wraps a prometheus registry owned by the process
// a nil *Registry is valid and hands out collectors that are never exposed
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns collectors registered under one namespace
type Registry struct {
	ns  string
	reg *prometheus.Registry
}

// New returns a registry with go and process collectors already registered
func New(namespace string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{ns: namespace, reg: reg}
}

// Histogram registers a histogram vec with default latency buckets
func (r *Registry) Histogram(subsystem, name, help string, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace(),
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   prometheus.DefBuckets,
	}, labels)
	r.register(h)
	return h
}

// Counter registers a counter vec
func (r *Registry) Counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace(),
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
	r.register(c)
	return c
}

// Handler serves the registry in the prometheus text format
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests and push clients
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// HTTP returns a middleware that records request count and latency by route pattern
func (r *Registry) HTTP() func(http.Handler) http.Handler {
	reqs := r.Counter("http", "requests_total", "HTTP requests by route and status", "method", "route", "status")
	lat := r.Histogram("http", "request_duration_seconds", "HTTP request latency by route", "method", "route")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)

			route := "unmatched"
			if rc := chi.RouteContext(req.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqs.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			lat.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func (r *Registry) namespace() string {
	if r == nil {
		return ""
	}
	return r.ns
}

func (r *Registry) register(c prometheus.Collector) {
	if r == nil {
		return
	}
	r.reg.MustRegister(c)
}
