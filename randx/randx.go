// Package randx provides crypto-grade random identifiers and picks.
package randx

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Alphabets for String.
const (
	Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Lowercase    = "abcdefghijklmnopqrstuvwxyz"
	Digits       = "0123456789"
	Hex          = "0123456789abcdef"
)

// ID returns a random UUIDv4 string.
func ID() string {
	return uuid.NewString()
}

// Short returns n random alphanumeric characters.
func Short(n int) string {
	return String(n, Alphanumeric)
}

// String returns n random characters drawn from alphabet. An empty
// alphabet or non-positive n yields the empty string.
func String(n int, alphabet string) string {
	if n <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[Intn(len(alphabet))]
	}
	return string(out)
}

// Intn returns a uniform random int in [0, n). It panics when n <= 0,
// matching math/rand.
func Intn(n int) int {
	if n <= 0 {
		panic("randx: Intn with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken.
		panic(err)
	}
	return int(v.Int64())
}

// Pick returns a random element of items and true, or the zero value and
// false for an empty slice.
func Pick[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[Intn(len(items))], true
}
