// Package service assembles dashboard snapshots from concurrent extractors
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facilities/internal/core/window"
	"facilities/internal/modkit/repokit"
	perr "facilities/internal/platform/errors"
	"facilities/internal/platform/logger"
	"facilities/internal/platform/metrics"
	"facilities/internal/services/api/dashboard/domain"
	"facilities/internal/services/api/dashboard/repo"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// UnavailableMsg is the only failure text clients ever see
const UnavailableMsg = "dashboard metrics unavailable"

// Defaults applied when a Config field is zero
const (
	DefaultTimeout     = 10 * time.Second
	DefaultRecentLimit = 5
)

// Service defines the dashboard service contract
type Service interface {
	domain.ServicePort
}

// Config controls snapshot construction
type Config struct {
	Timeout     time.Duration
	Location    *time.Location
	RecentLimit int
	Metrics     *metrics.Registry

	// Now is the clock seam, time.Now when nil
	Now func() time.Time
}

// Svc implements the dashboard service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.Queryer

	cfg        Config
	extractors []extractor

	latency  *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// New constructs a dashboard service
// db is used directly, not inside a transaction, so extractors can run in parallel
func New(db repokit.Queryer, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("dashboard.Service requires a non nil Queryer")
	}
	if binder == nil {
		panic("dashboard.Service requires a non nil Repo binder")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Svc{
		Repo:       binder.Bind(db),
		binder:     binder,
		db:         db,
		cfg:        cfg,
		extractors: extractors(cfg.RecentLimit),
		latency: cfg.Metrics.Histogram("dashboard", "extractor_duration_seconds",
			"Time spent in each dashboard extractor", "extractor", "outcome"),
		failures: cfg.Metrics.Counter("dashboard", "snapshot_failures_total",
			"Snapshots that failed by cause", "cause"),
	}
}

// extractorError names the extractor that broke the snapshot
type extractorError struct {
	name string
	err  error
}

func (e *extractorError) Error() string { return fmt.Sprintf("%s: %v", e.name, e.err) }
func (e *extractorError) Unwrap() error { return e.err }

// Snapshot reads every extractor concurrently and assembles one snapshot
// any extractor failure or the deadline fails the whole snapshot
func (s *Svc) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()
	w := window.At(s.cfg.Now(), s.cfg.Location)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var res results
	g, gctx := errgroup.WithContext(ctx)
	for _, ex := range s.extractors {
		g.Go(func() error {
			t0 := time.Now()
			err := ex.run(gctx, s.Repo, w, &res)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			s.latency.WithLabelValues(ex.name, outcome).Observe(time.Since(t0).Seconds())
			if err != nil {
				return &extractorError{name: ex.name, err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, s.fail(ctx, err)
	}

	snap := assemble(w, &res, s.cfg.RecentLimit)
	logger.C(ctx).Debug().
		Dur("elapsed", time.Since(start)).
		Str("tz", w.Location()).
		Int("fiscal_year", w.FiscalYear).
		Msg("dashboard snapshot built")
	return snap, nil
}

// fail classifies err, logs the cause and returns the generic client error
func (s *Svc) fail(ctx context.Context, err error) error {
	code := classify(ctx, err)

	cause := "store"
	if code == perr.ErrorCodeUnavailable {
		cause = "unavailable"
	}
	s.failures.WithLabelValues(cause).Inc()

	ev := logger.C(ctx).Error().Err(err).Str("cause", cause)
	var ee *extractorError
	if errors.As(err, &ee) {
		ev = ev.Str("extractor", ee.name)
	}
	ev.Msg("dashboard snapshot failed")

	return perr.Wrap(err, code, UnavailableMsg)
}

// classify maps an extractor failure to a client facing code
// deadlines and transient postgres states are Unavailable, everything else is DB
func classify(ctx context.Context, err error) perr.ErrorCode {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		perr.Transient(err):
		return perr.ErrorCodeUnavailable
	}
	return perr.ErrorCodeDB
}
