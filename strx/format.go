package strx

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Bytes renders a byte count for humans, e.g. 82854982 -> "83 MB".
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}

// ParseBytes reverses Bytes, e.g. "42 MB" -> 42000000.
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}

// RelTime renders t relative to now, e.g. "3 minutes ago".
func RelTime(t time.Time) string {
	return humanize.Time(t)
}
