package module

import (
	"time"

	"facilities/internal/platform/config"
	"facilities/internal/platform/validate"
	dashsvc "facilities/internal/services/api/dashboard/service"
)

// Options controls snapshot construction
type Options struct {
	Timeout     time.Duration `json:"timeout" validate:"gt=0"`
	TZ          string        `json:"tz" validate:"required,timezone"`
	RecentLimit int           `json:"recent_limit" validate:"min=1,max=5"`

	// MaxInFlight caps concurrent snapshots, each of which holds one pool
	// connection per extractor; 0 disables the cap
	MaxInFlight int `json:"max_in_flight" validate:"min=0,max=1024"`

	// Now overrides the clock; nil means time.Now
	Now func() time.Time `json:"-"`
}

// FromConfig reads DASHBOARD_* under the api config (CORE_API_DASHBOARD_* in env)
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("DASHBOARD_")
	return Options{
		Timeout:     c.MayDuration("TIMEOUT", dashsvc.DefaultTimeout),
		TZ:          c.MayString("TZ", "UTC"),
		RecentLimit: c.MayInt("RECENT_LIMIT", dashsvc.DefaultRecentLimit),
		MaxInFlight: c.MayInt("MAX_IN_FLIGHT", 4),
	}
}

// Validate checks ranges and that TZ names a loadable location
func (o Options) Validate() error { return validate.Struct(o) }

// Location loads TZ; call after Validate
func (o Options) Location() (*time.Location, error) { return time.LoadLocation(o.TZ) }

// PoolSize is the connection count that lets every admitted snapshot run
// all of its extractors at once
func (o Options) PoolSize() int32 {
	return int32(max(o.MaxInFlight, 1) * dashsvc.ExtractorCount)
}
