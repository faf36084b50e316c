// Package logger builds the zerolog root logger and carries request scoped children on the context
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"facilities/internal/platform/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level      string
	Format     string // json or console
	Service    string
	Writer     io.Writer
	WithCaller bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
func FromEnv() Options {
	c := config.New().Prefix("LOG_")
	return Options{
		Level:      c.MayString("LEVEL", "info"),
		Format:     strings.ToLower(c.MayString("FORMAT", "json")),
		Service:    c.MayString("SERVICE", ""),
		WithCaller: c.MayBool("CALLER", false),
	}
}

// New builds a logger from opt without touching process state
func New(opt Options) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zc := zerolog.New(w).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	return zc.Logger()
}

var (
	once sync.Once
	root Logger
)

// Init sets the process root logger; only the first call wins
// the zerolog global follows it so packages below logger log the same way
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		root = New(opt)
		log.Logger = root
	})
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	Init(FromEnv())
	return &root
}

// Named returns a child of the root tagged with component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

// C returns the logger carried by ctx, or the root
func C(ctx context.Context) *Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return Get()
}

// WithRequest stores a child logger tagged with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return with(ctx, "request_id", reqID)
}

// WithUser stores a child logger tagged with the authenticated subject
func WithUser(ctx context.Context, userID string) context.Context {
	return with(ctx, "user_id", userID)
}

func with(ctx context.Context, key, val string) context.Context {
	if val == "" {
		return ctx
	}
	l := C(ctx).With().Str(key, val).Logger()
	return l.WithContext(ctx)
}
