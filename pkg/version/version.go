// Package version carries build metadata for the vlanaudit binary.
package version

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/newtron-network/vlanaudit/pkg/version.Version=v1.0.0 \
//	  -X github.com/newtron-network/vlanaudit/pkg/version.GitCommit=abc1234 \
//	  -X github.com/newtron-network/vlanaudit/pkg/version.BuildDate=2026-01-01T00:00:00Z" ./cmd/vlanaudit
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// IsDev reports whether the binary was built without version ldflags.
func IsDev() bool {
	return Version == "dev"
}

// Info returns a formatted version string for display.
func Info() string {
	return Version + " (" + GitCommit + ") built " + BuildDate
}
