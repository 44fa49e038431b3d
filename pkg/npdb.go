// Package npdb provides application-level metadata for the npdb project.
package npdb

var (
	// Version is the application version. Set via ldflags at build time.
	Version = "v0.1.0"

	// Build is the build timestamp. Set via ldflags at build time.
	Build = "n/a"
)
