package i18nsync

// Version information for i18nsync.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/i18nsync.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "i18nsync"

	// Description is a short description of the application.
	Description = "Translation key extraction and locale catalog synchronization"

	// Version is the semantic version of the application.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/i18nsync"

	// License is the software license.
	License = "MIT"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended
// when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
