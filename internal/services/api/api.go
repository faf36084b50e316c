// Package api assembles the facilities HTTP API from its modules
package api

import (
	"net/http"

	"facilities/internal/modkit"
	"facilities/internal/modkit/httpkit"
	"facilities/internal/modkit/swaggerkit"
	"facilities/internal/platform/auth"
	"facilities/internal/platform/config"
	"facilities/internal/platform/logger"
	"facilities/internal/platform/metrics"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/net/middleware"
	"facilities/internal/platform/store"
	dashmod "facilities/internal/services/api/dashboard/module"
	dashrepo "facilities/internal/services/api/dashboard/repo"
	metamod "facilities/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Metrics is exposed on /metrics when set
	Metrics *metrics.Registry

	// CORSOrigins restricts browser origins; empty allows any
	CORSOrigins []string

	// Auth guards the dashboard with bearer tokens; nil leaves it open
	Auth *auth.HMAC
}

// Modules builds every api module from opt
func Modules(opt Options) []modkit.Module {
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	var dashOpts []modkit.Option
	if opt.Auth != nil {
		dashOpts = append(dashOpts, modkit.WithMiddlewares(middleware.Auth(opt.Auth.TokenFunc())))
	}

	return []modkit.Module{
		metamod.New(deps, dashrepo.Tables),
		dashmod.New(deps, dashOpts...),
	}
}

// Mount mounts the API onto a fresh router
func Mount(r phttp.Router, opt Options) {
	// liveness for load balancers, outside the versioned stack
	r.Use(middleware.Heartbeat("/health"))

	stack := httpkit.CommonStack(opt.CORSOrigins...)
	if opt.Metrics != nil {
		stack = append([]func(http.Handler) http.Handler{opt.Metrics.HTTP()}, stack...)
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	if opt.EnableProfiler {
		phttp.MountProfiler(r, "/debug")
	}

	mods := Modules(opt)
	httpkit.MountAPI(r, "v1", stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
