package kompanion

import "github.com/bronystylecrazy/kompanion/buildinfo"

const NilVersion = buildinfo.NilVersion

func Version() string {
	return buildinfo.Version
}

func IsProduction() bool {
	return buildinfo.IsProduction()
}

func IsDevelopment() bool {
	return buildinfo.IsDevelopment()
}
