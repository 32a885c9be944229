// Package numx contains small numeric helpers.
package numx

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ErrOverflow is returned when a result does not fit in the target type.
var ErrOverflow = errors.New("numx: overflow")

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type Number interface {
	Integer | ~float32 | ~float64
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InRange reports whether v lies in the inclusive range [lo, hi].
func InRange[T Number](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

func Abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign[T Number](v T) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func IsEven[T Integer](v T) bool {
	return v%2 == 0
}

func IsOdd[T Integer](v T) bool {
	return !IsEven(v)
}

// Factorial computes n! and fails with ErrOverflow past 20.
func Factorial(n int) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("numx: factorial of negative %d", n)
	}
	if n > 20 {
		return 0, ErrOverflow
	}
	out := uint64(1)
	for i := uint64(2); i <= uint64(n); i++ {
		out *= i
	}
	return out, nil
}

// Fibonacci returns the n-th Fibonacci number (F(0)=0, F(1)=1). Negative n
// yields 0.
func Fibonacci(n int) uint64 {
	if n <= 0 {
		return 0
	}
	var a, b uint64 = 0, 1
	for i := 1; i < n; i++ {
		a, b = b, a+b
	}
	return b
}

// IsPrime reports primality by trial division; fine for the small inputs a
// helper like this sees.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b; LCM(0, x) is 0.
func LCM(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return abs(a/GCD(a, b)*b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// PercentOf returns pct percent of v.
func PercentOf(v, pct float64) float64 {
	return v * pct / 100
}

// MapRange linearly remaps v from [inLo, inHi] to [outLo, outHi].
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}

// Ordinal renders 1 as "1st", 2 as "2nd", and so on.
func Ordinal(n int) string {
	return humanize.Ordinal(n)
}

// Comma renders 1234567 as "1,234,567".
func Comma(n int64) string {
	return humanize.Comma(n)
}
