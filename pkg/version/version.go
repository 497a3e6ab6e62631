// Package version holds build metadata stamped at release time.
package version

var (
	// BinaryName is the canonical name of the toolkit binary.
	BinaryName = "uc-bedrock-toolkit"

	// Version is overridden by the release pipeline via -ldflags.
	Version = "0.0.0-dev"
)
