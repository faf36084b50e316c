// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the api binary
func Info() BuildInfo { return For(service) }

// For returns build information labelled with another binary name
func For(name string) BuildInfo {
	// Set via -ldflags "-X 'facilities/internal/core/version.version=v0.1.0'
	// -X 'facilities/internal/core/version.commit=abcd' -X 'facilities/internal/core/version.date=2026-10-16'"
	return BuildInfo{
		Service: name,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

const service = "facilities-api"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
