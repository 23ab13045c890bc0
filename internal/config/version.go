package config

import "fmt"

// Build-time version metadata for the advisor-portal binary, injected via
// -ldflags. Defaults apply to plain `go build` developer builds.
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the portal version string.
func GetVersion() string {
	return Version
}

// GetBuild returns the build timestamp.
func GetBuild() string {
	return Build
}

// GetGitCommit returns the git commit hash the binary was built from.
func GetGitCommit() string {
	return GitCommit
}

// GetFullVersion renders version, build, and commit on one line for the
// -version flag and the MCP get_version tool.
func GetFullVersion() string {
	return fmt.Sprintf("%s (build: %s, commit: %s)", Version, Build, GitCommit)
}
