//go:build prod

package buildinfo

// Populated at build time via -ldflags.
var (
	Version   string = NilVersion
	Commit    string = NilCommit
	BuildDate string = NilBuildDate
)
