// Package version exposes build information for monox binaries.
//
// Version, git commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/monox/version.Version=1.0.0" ./cmd/monox
//
// Unset values fall back to the module build info embedded by the Go
// toolchain.
package version
