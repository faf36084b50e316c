// Package http provides http transport for the dashboard
package http

import (
	stdhttp "net/http"

	"facilities/internal/modkit/httpkit"
	"facilities/internal/services/api/dashboard/domain"
)

// Register mounts the dashboard endpoint on the given router
// only GET is served; every other verb gets 405 with Allow: GET
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Only(r, "/", h.snapshot, stdhttp.MethodGet)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /dashboard Dashboard dashboardSnapshot
// @Summary Dashboard metrics snapshot
// @Description Counts, groupings and derived KPIs read fresh from every record store
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Snapshot "snapshot"
// @Failure 405 {object} httpkit.ErrorBody "method not allowed"
// @Failure 500 {object} httpkit.ErrorBody "store failure"
// @Failure 503 {object} httpkit.ErrorBody "deadline elapsed"
// @Router /dashboard [get]
func (h *handlers) snapshot(r *stdhttp.Request) (any, error) {
	return h.svc.Snapshot(r.Context())
}
