// Package modkit is how api modules are built and mounted
package modkit

import (
	"fmt"
	"net/http"
	"strings"

	"facilities/internal/platform/config"
	"facilities/internal/platform/logger"
	"facilities/internal/platform/metrics"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/store"
)

// Module is what the api mounts
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports exposes the module's service ports for other binaries, nil when it has none
	Ports() any
}

// Deps are the shared dependencies handed to every module
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      store.Querier
	Metrics *metrics.Registry
}

// Option customises a module at construction
type Option func(*Built)

// WithName overrides the module name
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix overrides the route prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends middleware that runs only on the module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// Built is the resolved module configuration
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies opts in order and normalises the prefix to /name form
// a blank name or prefix is a wiring bug and panics
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if strings.TrimSpace(b.Name) == "" {
		panic("modkit: module name is required")
	}
	p := "/" + strings.Trim(strings.TrimSpace(b.Prefix), "/")
	if p == "/" {
		panic(fmt.Sprintf("modkit: module %s needs a prefix", b.Name))
	}
	b.Prefix = p
	return b
}

// Mount registers the module's routes under its prefix behind its middleware
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	r.Route(b.Prefix, func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	})
}

// PortsOf returns m's ports as T
func PortsOf[T any](m Module) (T, bool) {
	p, ok := m.Ports().(T)
	return p, ok
}

// MustPortsOf is PortsOf for wiring code, it panics when m does not expose T
func MustPortsOf[T any](m Module) T {
	p, ok := PortsOf[T](m)
	if !ok {
		var zero T
		panic(fmt.Sprintf("modkit: module %s does not expose %T", m.Name(), &zero))
	}
	return p
}
