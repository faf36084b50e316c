// Package module wires the dashboard into the API using modkit
package module

import (
	"net/http"

	"facilities/internal/modkit"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/net/middleware"
	dashhttp "facilities/internal/services/api/dashboard/http"
	dashrepo "facilities/internal/services/api/dashboard/repo"
	dashsvc "facilities/internal/services/api/dashboard/service"
)

// Module implements the dashboard module
type Module struct {
	b   modkit.Built
	svc *dashsvc.Svc
}

// New constructs the dashboard module
// options come from deps.Cfg; invalid options panic since they are a deploy error
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m, err := NewWithOptions(deps, FromConfig(deps.Cfg), opts...)
	if err != nil {
		panic("dashboard: " + err.Error())
	}
	return m
}

// NewWithOptions constructs the dashboard module from explicit options
func NewWithOptions(deps modkit.Deps, o Options, opts ...modkit.Option) (*Module, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	loc, err := o.Location()
	if err != nil {
		return nil, err
	}

	b := modkit.Build(append([]modkit.Option{modkit.WithName("dashboard"), modkit.WithPrefix("/dashboard")}, opts...)...)
	if o.MaxInFlight > 0 {
		// excess callers wait up to Timeout in a backlog, then get 429
		b.Mw = append([]func(http.Handler) http.Handler{
			middleware.Throttle(o.MaxInFlight, o.MaxInFlight*4, o.Timeout),
		}, b.Mw...)
	}

	svc := dashsvc.New(deps.PG, dashrepo.NewPG(), dashsvc.Config{
		Timeout:     o.Timeout,
		Location:    loc,
		RecentLimit: o.RecentLimit,
		Metrics:     deps.Metrics,
		Now:         o.Now,
	})
	return &Module{b: b, svc: svc}, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// MountRoutes mounts GET <prefix> behind the module middleware
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(sub phttp.Router) { dashhttp.Register(sub, m.svc) })
}

// Ports exposes the snapshot service as a domain.ServicePort
func (m *Module) Ports() any { return m.svc }
