// Package version carries the build version, set with
// -ldflags "-X chaincomp/internal/version.Version=...".
package version

var Version = "dev"
