// Package store opens the postgres pool the api reads from
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facilities/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is the scan contract of a single row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is the read surface repos use; the api never writes
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds the opened backends
// the zero value has none and Guard reports that
type Store struct {
	Log logger.Logger
	PG  Querier
}

// pool narrows pgxpool to Querier; Ping and Close come from the embedded pool
type pool struct{ *pgxpool.Pool }

func (p pool) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.Pool.Query(ctx, sql, args...)
}

func (p pool) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.Pool.QueryRow(ctx, sql, args...)
}

const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// Open builds the pool and pings it with backoff until it answers or retries run out
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	pcfg, err := cfg.pool(log)
	if err != nil {
		return nil, fmt.Errorf("pg config: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	var lastErr error
	backoff := backoffStart
	for i := 0; i < cfg.retries(); i++ {
		pctx, cancel := context.WithTimeout(ctx, cfg.pingTimeout())
		lastErr = p.Ping(pctx)
		cancel()
		if lastErr == nil {
			return &Store{Log: log, PG: pool{p}}, nil
		}
		log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", cfg.retries(), lastErr)
}

// Guard fails when postgres is missing or does not answer a ping
func (s *Store) Guard(ctx context.Context) error {
	if s == nil || s.PG == nil {
		return errors.New("store: postgres not configured")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases the pool; safe on a zero Store
func (s *Store) Close() {
	if s == nil {
		return
	}
	if c, ok := s.PG.(interface{ Close() }); ok {
		c.Close()
	}
}
