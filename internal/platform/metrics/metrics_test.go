package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_CounterExposed(t *testing.T) {
	r := New("facilities")
	c := r.Counter("dashboard", "failures_total", "failures", "extractor")
	c.WithLabelValues("sites").Inc()

	if got := testutil.ToFloat64(c.WithLabelValues("sites")); got != 1 {
		t.Fatalf("counter = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `facilities_dashboard_failures_total{extractor="sites"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}

func TestNilRegistry_IsUsable(t *testing.T) {
	var r *Registry
	h := r.Histogram("dashboard", "x_seconds", "x", "a")
	h.WithLabelValues("b").Observe(1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHTTP_RecordsRoutePattern(t *testing.T) {
	r := New("facilities")
	router := chi.NewRouter()
	router.Use(r.HTTP())
	router.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	n, err := testutil.GatherAndCount(r.Gatherer(), "facilities_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 1 {
		t.Fatalf("series = %d, want 1", n)
	}

	exp := httptest.NewRecorder()
	r.Handler().ServeHTTP(exp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(exp.Body.String(), `route="/things/{id}",status="418"`) {
		t.Fatalf("expected route pattern label, got:\n%s", exp.Body.String())
	}
}
