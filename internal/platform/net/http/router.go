package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the routing surface modules mount against
type Router interface {
	Get(pattern string, h stdhttp.HandlerFunc)
	Handle(pattern string, h stdhttp.Handler)
	Mount(pattern string, h stdhttp.Handler)
	Use(mw ...func(stdhttp.Handler) stdhttp.Handler)
	Route(pattern string, fn func(Router))

	// Mux is the underlying handler, for tests and servers
	Mux() stdhttp.Handler
}

// chiRouter keeps chi types out of module code
type chiRouter struct{ r chi.Router }

// NewRouter returns a Router backed by a fresh chi mux
func NewRouter() Router { return chiRouter{r: chi.NewRouter()} }

func (c chiRouter) Get(p string, h stdhttp.HandlerFunc)             { c.r.Get(p, h) }
func (c chiRouter) Handle(p string, h stdhttp.Handler)              { c.r.Handle(p, h) }
func (c chiRouter) Mount(p string, h stdhttp.Handler)               { c.r.Mount(p, h) }
func (c chiRouter) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.r.Use(mw...) }
func (c chiRouter) Mux() stdhttp.Handler                            { return c.r }

func (c chiRouter) Route(p string, fn func(Router)) {
	c.r.Route(p, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}
