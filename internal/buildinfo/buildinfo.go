// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/motivaedu/coursebot-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/motivaedu/coursebot-go/internal/buildinfo.Commit=...
var Commit = ""

// Release returns the identifier used to tag logs and error reports, or
// "dev" when the binary was built without version injection.
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + "+" + Commit
	case Version != "":
		return Version
	case Commit != "":
		return Commit
	default:
		return "dev"
	}
}
