// Package version exposes build metadata for the netopt-release tool.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. This is the
// tool's own version, not the NetOpt release version being built; the
// latter is an argument of the build and publish commands.
// Helper functions Short and Full render the version string for CLI output and logs.
package version
