package store

import (
	"time"

	"facilities/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the postgres pool
type Config struct {
	// AppName shows up as application_name in pg_stat_activity
	AppName  string
	URL      string
	MaxConns int32

	// SlowQuery logs statements at warn once they take this long, zero disables
	SlowQuery time.Duration
	// LogSQL logs every statement at debug
	LogSQL bool

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

func (c Config) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return 20
}

func (c Config) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 3 * time.Second
}

func (c Config) pool(log logger.Logger) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, err
	}
	if c.MaxConns > 0 {
		pcfg.MaxConns = c.MaxConns
	}
	if c.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = c.AppName
	}
	if c.LogSQL || c.SlowQuery > 0 {
		pcfg.ConnConfig.Tracer = newTracer(log, c.SlowQuery, c.LogSQL)
	}
	return pcfg, nil
}
