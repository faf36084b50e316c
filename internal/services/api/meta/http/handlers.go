// Package http serves the meta endpoints: liveness, readiness, version and uptime
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"facilities/internal/core/version"
	"facilities/internal/modkit/httpkit"
	"facilities/internal/platform/store"
)

// Deps are what the meta handlers report on
type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// PG is pinged and used to look up Tables; nil marks the check skipped
	PG     store.Querier
	Tables []string
}

// Register mounts health, ready, version and service on r
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"facilities-api"`
	Now     string `json:"now"     example:"2026-10-16T13:05:00Z"`
}

// Check statuses
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
)

// ReadyCheck is one dependency check
type ReadyCheck struct {
	Name   string `json:"name"            example:"table:assets"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"relation does not exist"`
}

// ReadyResponse is ok when every check passed, degraded when some were skipped, fail otherwise
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"facilities-api"`
	Started string `json:"started" example:"2026-10-16T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*stdhttp.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Now: h.now().UTC().Format(time.RFC3339)}, nil
}

// @Summary Readiness of postgres and the record tables the dashboard reads
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := []ReadyCheck{h.ping(ctx)}
	if checks[0].Status == CheckOK {
		for _, t := range h.deps.Tables {
			checks = append(checks, h.table(ctx, t))
		}
	}

	out := ReadyResponse{Status: CheckOK, Checks: checks}
	for _, c := range checks {
		switch {
		case c.Status == CheckFail:
			out.Status = CheckFail
		case c.Status != CheckOK && out.Status == CheckOK:
			out.Status = "degraded"
		}
	}
	return out, nil
}

func (h *handlers) ping(ctx context.Context) ReadyCheck {
	c := ReadyCheck{Name: "pg", Status: CheckOK}
	p, ok := h.deps.PG.(store.Pinger)
	if !ok {
		c.Status = CheckSkipped
		return c
	}
	if err := p.Ping(ctx); err != nil {
		c.Status, c.Error = CheckFail, err.Error()
	}
	return c
}

func (h *handlers) table(ctx context.Context, name string) ReadyCheck {
	c := ReadyCheck{Name: "table:" + name, Status: CheckOK}
	exists, err := store.Scalar[bool](ctx, h.deps.PG, `select to_regclass($1) is not null`, name)
	switch {
	case err != nil:
		c.Status, c.Error = CheckFail, err.Error()
	case !exists:
		c.Status, c.Error = CheckFail, "relation does not exist"
	}
	return c
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(*stdhttp.Request) (any, error) {
	return version.For(h.deps.ServiceName), nil
}

// @Summary Service start time and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*stdhttp.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
