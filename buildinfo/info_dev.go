//go:build !prod

package buildinfo

var (
	Version   string = NilVersion
	Commit    string = NilCommit
	BuildDate string = NilBuildDate
)
