// @title         Facilities API
// @version       0.1.0
// @description   Read only dashboard metrics over assets, work orders, incidents, audits and budgets

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // CORE_API_DASHBOARD_TZ must resolve on minimal images

	"facilities/internal/modkit/repokit"
	"facilities/internal/platform/auth"
	"facilities/internal/platform/config"
	"facilities/internal/platform/logger"
	"facilities/internal/platform/metrics"
	phttp "facilities/internal/platform/net/http"
	"facilities/internal/platform/store"
	"facilities/internal/services/api"
	dashmod "facilities/internal/services/api/dashboard/module"
)

func main() {
	// bring up logging early
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = "facilities-api"
	}
	logger.Init(lopt)
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// every admitted snapshot fans out one connection per extractor
	maxConns := int32(pgCfg.MayInt("MAX_CONNS", int(dashmod.FromConfig(apiCfg).PoolSize())))

	st, err := store.Open(ctx, store.Config{
		AppName:        "facilities-api",
		URL:            pgCfg.MustString("DBURL"),
		MaxConns:       maxConns,
		SlowQuery:      time.Duration(pgCfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
		LogSQL:         pgCfg.MayBool("LOG_SQL", false),
		ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
	}, *l)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer st.Close()
	repokit.MustGuard(ctx, st)

	var reg *metrics.Registry
	if apiCfg.MayBool("METRICS", true) {
		reg = metrics.New("facilities")
	}

	var verifier *auth.HMAC
	if secret := apiCfg.MayString("JWT_SECRET", ""); secret != "" {
		verifier, err = auth.NewHMAC(secret, apiCfg.MayString("JWT_ISSUER", ""))
		if err != nil {
			l.Panic().Err(err).Msg("jwt verifier")
		}
	} else {
		l.Warn().Msg("CORE_API_JWT_SECRET unset, dashboard is unauthenticated")
	}

	// http server (reads CORE_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Metrics:        reg,
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
			Auth:           verifier,
		},
	)

	l.Info().Str("addr", srv.Addr()).Int32("pg_max_conns", maxConns).Msg("facilities api listening")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
