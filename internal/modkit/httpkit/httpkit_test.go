package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "facilities/internal/platform/net/http"
)

func TestOnly(t *testing.T) {
	r := phttp.NewRouter()
	Only(r, "/", func(*http.Request) (any, error) { return "snap", nil }, http.MethodGet)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "\"snap\"\n" {
		t.Fatalf("GET = %d %q", rec.Code, rec.Body.String())
	}

	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(m, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != "GET" {
			t.Fatalf("%s = %d allow=%q", m, rec.Code, rec.Header().Get("Allow"))
		}
		var body ErrorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error != "method "+m+" not allowed" {
			t.Fatalf("%s body = %q", m, rec.Body.String())
		}
	}
}

func TestGet(t *testing.T) {
	r := phttp.NewRouter()
	Get(r, "/version", func(*http.Request) (any, error) { return map[string]string{"v": "1"}, nil })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"v":"1"}` {
		t.Fatalf("GET = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMountAPI_CommonStack(t *testing.T) {
	r := phttp.NewRouter()
	MountAPI(r, "/v1/", CommonStack(), func(api Router) {
		api.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
		Get(api, "/dashboard", func(*http.Request) (any, error) { return map[string]int{"totalSites": 1}, nil })
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Fatal("NoCache should set Cache-Control")
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), `"error":"internal error"`) {
		t.Fatalf("panic = %d %q", rec.Code, rec.Body.String())
	}
}
