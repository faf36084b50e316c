package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"facilities/internal/modkit"
	"facilities/internal/platform/config"
	perr "facilities/internal/platform/errors"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/store"
	"facilities/internal/platform/testkit"
	"facilities/internal/services/api/dashboard/domain"
	dashsvc "facilities/internal/services/api/dashboard/service"
)

type fakePG struct{}

func (fakePG) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (fakePG) QueryRow(context.Context, string, ...any) store.Row        { return nil }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// blockingPG holds every read until release is closed
type blockingPG struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

var errReleased = errors.New("released")

func (b *blockingPG) wait() {
	b.once.Do(func() { close(b.entered) })
	<-b.release
}

func (b *blockingPG) Query(context.Context, string, ...any) (store.Rows, error) {
	b.wait()
	return nil, errReleased
}

func (b *blockingPG) QueryRow(context.Context, string, ...any) store.Row {
	b.wait()
	return errRow{err: errReleased}
}

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New().Prefix("DASHBOARD_TEST_UNSET_"))
	if o.Timeout != 10*time.Second || o.TZ != "UTC" || o.RecentLimit != 5 || o.MaxInFlight != 4 {
		t.Fatalf("defaults = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromConfig_ReadsEnv(t *testing.T) {
	t.Setenv("CORE_API_DASHBOARD_TIMEOUT", "3s")
	t.Setenv("CORE_API_DASHBOARD_TZ", "Europe/Oslo")
	t.Setenv("CORE_API_DASHBOARD_RECENT_LIMIT", "3")
	t.Setenv("CORE_API_DASHBOARD_MAX_IN_FLIGHT", "2")

	o := FromConfig(config.New().Prefix("CORE_API_"))
	if o.Timeout != 3*time.Second || o.TZ != "Europe/Oslo" || o.RecentLimit != 3 || o.MaxInFlight != 2 {
		t.Fatalf("options = %+v", o)
	}
}

func TestOptions_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   Options
		ok   bool
	}{
		{"valid", Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 5}, true},
		{"limit at one", Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 1}, true},
		{"zero timeout", Options{Timeout: 0, TZ: "UTC", RecentLimit: 5}, false},
		{"unknown tz", Options{Timeout: time.Second, TZ: "Mars/Olympus", RecentLimit: 5}, false},
		{"limit too small", Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 0}, false},
		{"limit above five", Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 6}, false},
		{"negative in flight", Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 5, MaxInFlight: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !perr.IsCode(err, perr.ErrorCodeValidation) {
					t.Fatalf("code = %v, want validation", perr.CodeOf(err))
				}
			}
		})
	}
}

func TestOptions_RecentLimitMessage(t *testing.T) {
	err := Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 6}.Validate()
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("want *errors.Error, got %T", err)
	}
	if e.Field() != "recent_limit" {
		t.Fatalf("field = %q, want recent_limit", e.Field())
	}
	testkit.MustContain(t, e.Message(), "5")
}

func TestOptions_PoolSize(t *testing.T) {
	if got, want := (Options{MaxInFlight: 4}).PoolSize(), int32(4*dashsvc.ExtractorCount); got != want {
		t.Fatalf("PoolSize = %d, want %d", got, want)
	}
	if got := (Options{}).PoolSize(); got != int32(dashsvc.ExtractorCount) {
		t.Fatalf("uncapped PoolSize = %d, want one snapshot worth", got)
	}
}

func TestNew_PanicsOnBadConfig(t *testing.T) {
	t.Setenv("CORE_API_DASHBOARD_RECENT_LIMIT", "6")
	testkit.MustPanic(t, func() {
		New(modkit.Deps{Cfg: config.New().Prefix("CORE_API_"), PG: fakePG{}})
	})
}

func TestModule_MountsUnderPrefix(t *testing.T) {
	m, err := NewWithOptions(modkit.Deps{PG: fakePG{}}, Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 5})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if m.Name() != "dashboard" {
		t.Fatalf("name = %q", m.Name())
	}
	if _, ok := modkit.PortsOf[domain.ServicePort](m); !ok {
		t.Fatal("expected ports to expose domain.ServicePort")
	}

	r := phttp.NewRouter()
	r.Route("/api/v1", func(api phttp.Router) { m.MountRoutes(api) })

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d, want 405", rr.Code)
	}
}

func TestModule_AppliesMiddlewares(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	m, err := NewWithOptions(modkit.Deps{PG: fakePG{}}, Options{Timeout: time.Second, TZ: "UTC", RecentLimit: 5},
		modkit.WithMiddlewares(deny))
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	r := phttp.NewRouter()
	m.MountRoutes(r)

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 from module middleware", rr.Code)
	}
}

func TestModule_OverCapacityGetsJSON429(t *testing.T) {
	pg := &blockingPG{entered: make(chan struct{}), release: make(chan struct{})}
	m, err := NewWithOptions(modkit.Deps{PG: pg},
		Options{Timeout: 50 * time.Millisecond, TZ: "UTC", RecentLimit: 5, MaxInFlight: 1})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	r := phttp.NewRouter()
	m.MountRoutes(r)

	first := make(chan int, 1)
	go func() {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		first <- rr.Code
	}()
	<-pg.entered

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	close(pg.release)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q, want application/json", ct)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not json: %v (%q)", err, rr.Body.String())
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("body has no error key: %v", body)
	}

	if code := <-first; code == http.StatusOK || code == http.StatusTooManyRequests {
		t.Fatalf("first status = %d, want a store failure", code)
	}
}
