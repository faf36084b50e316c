package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"facilities/internal/platform/config"
	phttp "facilities/internal/platform/net/http"
)

func TestRouter_RouteUseAndMount(t *testing.T) {
	r := phttp.NewRouter()

	r.Route("/api/v1", func(api phttp.Router) {
		api.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Scope", "v1")
				next.ServeHTTP(w, req)
			})
		})
		api.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })
		api.Handle("/any", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(req.Method))
		}))
	})
	r.Mount("/ext", http.StripPrefix("/ext", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(req.URL.Path))
	})))

	cases := []struct {
		method, path, body, scope string
	}{
		{http.MethodGet, "/api/v1/ping", "pong", "v1"},
		{http.MethodDelete, "/api/v1/any", "DELETE", "v1"},
		{http.MethodGet, "/ext/a/b", "/a/b", ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Body.String() != tc.body || rec.Header().Get("X-Scope") != tc.scope {
			t.Fatalf("%s %s = %q scope=%q", tc.method, tc.path, rec.Body.String(), rec.Header().Get("X-Scope"))
		}
	}
}

func TestMountProfiler(t *testing.T) {
	r := phttp.NewRouter()
	phttp.MountProfiler(r, "/debug")

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pprof index = %d", rec.Code)
	}
}

func TestServer_AddrFromConfig(t *testing.T) {
	if got := phttp.NewServer(config.New().Prefix("SRVT_UNSET_")).Addr(); got != ":4000" {
		t.Fatalf("default addr = %q", got)
	}
	t.Setenv("SRVT_PORT", "8089")
	if got := phttp.NewServer(config.New().Prefix("SRVT_")).Addr(); got != ":8089" {
		t.Fatalf("bare port addr = %q", got)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Setenv("SRVT_PORT", "127.0.0.1:0")
	t.Setenv("SRVT_SHUTDOWN_GRACE", "1s")
	srv := phttp.NewServer(config.New().Prefix("SRVT_"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	t.Setenv("SRVT_PORT", "127.0.0.1:-1")
	err := phttp.NewServer(config.New().Prefix("SRVT_")).Run(context.Background())
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("Run = %v, want listen error", err)
	}
}
