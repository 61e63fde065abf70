// Package build holds build-time information set through linker flags.
package build

var (
	// Version is the application version. It defaults to "dev".
	Version = "dev"
	// Commit is the source revision the binary was built from, when known.
	Commit = ""
)

// String returns the version followed by the commit, if one was recorded.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
