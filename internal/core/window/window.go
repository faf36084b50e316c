// Package window defines the shared time windows every dashboard extractor filters by.
// A Window is built once per snapshot so all extractors agree on "now"
package window

import "time"

const (
	// ReplacementMonths is the lookahead used to flag assets nearing end of life
	ReplacementMonths = 6

	// MaintenanceDays is the lookahead used to flag active plans due soon
	MaintenanceDays = 7
)

// Range is a closed interval [From, To]
type Range struct {
	From time.Time
	To   time.Time
}

// Window holds every time-relative filter value for one snapshot
type Window struct {
	Now          time.Time
	StartOfMonth time.Time
	StartOfYear  time.Time

	// Replacement is [Now, Now+6 months]
	Replacement Range
	// Maintenance is [Now, Now+7 days]
	Maintenance Range

	// FiscalYear is the calendar year of Now
	FiscalYear int
	// Month is the calendar month of Now (1..12)
	Month int
}

// At builds the window for now expressed in loc (UTC when loc is nil)
func At(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	y, m, _ := now.Date()

	return Window{
		Now:          now,
		StartOfMonth: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		StartOfYear:  time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
		Replacement:  Range{From: now, To: now.AddDate(0, ReplacementMonths, 0)},
		Maintenance:  Range{From: now, To: now.AddDate(0, 0, MaintenanceDays)},
		FiscalYear:   y,
		Month:        int(m),
	}
}

// Location returns the IANA name of the window's location, used by queries that
// bucket timestamps by calendar month
func (w Window) Location() string { return w.Now.Location().String() }
