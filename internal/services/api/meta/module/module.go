// Package module mounts the meta endpoints under /meta
package module

import (
	"time"

	"facilities/internal/core/version"
	"facilities/internal/modkit"
	phttp "facilities/internal/platform/net/http"
	metahttp "facilities/internal/services/api/meta/http"
)

// Module is the meta module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New builds the meta module; tables are checked by /meta/ready once postgres answers
func New(deps modkit.Deps, tables []string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   time.Now(),
			PG:          deps.PG,
			Tables:      append([]string(nil), tables...),
		},
	}
}

func (m *Module) Name() string { return m.b.Name }

func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(sub phttp.Router) { metahttp.Register(sub, m.deps) })
}

// Ports is nil; meta serves http only
func (m *Module) Ports() any { return nil }
