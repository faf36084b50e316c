// Command facilities-snapshot prints one dashboard snapshot as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"
	_ "time/tzdata"

	"facilities/internal/modkit"
	"facilities/internal/platform/config"
	"facilities/internal/platform/logger"
	"facilities/internal/platform/store"
	dashdomain "facilities/internal/services/api/dashboard/domain"
	dashmod "facilities/internal/services/api/dashboard/module"
)

func main() {
	// flags default to the same CORE_API_DASHBOARD_* settings the api reads
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	opts := dashmod.FromConfig(apiCfg)

	var (
		tz      = flag.String("tz", opts.TZ, "IANA zone used for month and year boundaries")
		timeout = flag.Duration("timeout", opts.Timeout, "snapshot deadline")
		limit   = flag.Int("recent", opts.RecentLimit, "length of the recent lists, 1 to 5")
		at      = flag.String("at", "", "RFC3339 instant to compute the snapshot for, default now")
		pretty  = flag.Bool("pretty", true, "pretty-print JSON")
	)
	flag.Parse()

	l := logger.Get()

	opts.TZ, opts.Timeout, opts.RecentLimit = *tz, *timeout, *limit
	opts.MaxInFlight = 0
	if *at != "" {
		fixed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			l.Fatal().Err(err).Str("at", *at).Msg("bad -at")
		}
		opts.Now = func() time.Time { return fixed }
	}

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	st, err := store.Open(context.Background(), store.Config{
		AppName:        "facilities-snapshot",
		URL:            pgCfg.MustString("DBURL"),
		MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", int(opts.PoolSize()))),
		SlowQuery:      time.Duration(pgCfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
		LogSQL:         pgCfg.MayBool("LOG_SQL", false),
		ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 3),
	}, *l)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	code := run(st, *l, apiCfg, opts, *pretty)
	st.Close()
	os.Exit(code)
}

func run(st *store.Store, l logger.Logger, cfg config.Conf, opts dashmod.Options, pretty bool) int {
	m, err := dashmod.NewWithOptions(modkit.Deps{Log: l, Cfg: cfg, PG: st.PG}, opts)
	if err != nil {
		l.Error().Err(err).Msg("invalid dashboard options")
		return 2
	}
	svc := modkit.MustPortsOf[dashdomain.ServicePort](m)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		l.Error().Err(err).Msg("snapshot failed")
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		l.Error().Err(err).Msg("encode snapshot")
		return 1
	}
	return 0
}
