package store

import (
	"context"
	"strings"
	"time"

	"facilities/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// tracer logs statements through zerolog
// slow ones at warn, the rest at debug when all is set
type tracer struct {
	log  logger.Logger
	slow time.Duration
	all  bool
}

func newTracer(log logger.Logger, slow time.Duration, all bool) *tracer {
	return &tracer{log: log.With().Str("component", "pg").Logger(), slow: slow, all: all}
}

type queryStart struct {
	sql string
	at  time.Time
}

type startKey struct{}

func (t *tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

func (t *tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(startKey{}).(queryStart)
	if !ok {
		return
	}
	t.observe(qs.sql, time.Since(qs.at), data.Err)
}

func (t *tracer) observe(sql string, elapsed time.Duration, err error) {
	slow := t.slow > 0 && elapsed >= t.slow
	ev := t.log.Debug()
	switch {
	case slow:
		ev = t.log.Warn()
	case !t.all:
		return
	}
	ev.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", strings.Join(strings.Fields(sql), " ")).
		Err(err).
		Msg("pg query")
}
