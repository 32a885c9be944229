// Package buildinfo carries build-time metadata for the library and the
// dev/prod mode switch derived from it.
package buildinfo

const (
	NilVersion   = "v0.0.0-development"
	NilCommit    = "unknown"
	NilBuildDate = "unknown"
)

func IsProduction() bool {
	return Version != NilVersion
}

func IsDevelopment() bool {
	return Version == NilVersion
}
