// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/sjc-hospitality/hestia-bot/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/sjc-hospitality/hestia-bot/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/sjc-hospitality/hestia-bot/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Service is the name reported in logs, error events and the root endpoint.
const Service = "hestia-bot"

// Release identifies the build for error tracking, e.g. "hestia-bot@v1.4.0".
// Unversioned builds fall back to the short commit, then to "dev".
func Release() string {
	switch {
	case Version != "":
		return Service + "@" + Version
	case Commit != "":
		return Service + "@" + shortCommit(Commit)
	default:
		return Service + "@dev"
	}
}

// Fields returns the non-empty build values for startup logging.
func Fields() map[string]any {
	fields := make(map[string]any, 3)
	if Version != "" {
		fields["version"] = Version
	}
	if Commit != "" {
		fields["commit"] = shortCommit(Commit)
	}
	if BuildDate != "" {
		fields["build_date"] = BuildDate
	}
	return fields
}

func shortCommit(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
