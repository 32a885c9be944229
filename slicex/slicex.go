// Package slicex contains generic slice helpers.
package slicex

import (
	"cmp"
	"math/rand"
)

// Map transforms each element with fn.
func Map[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Filter keeps the elements for which keep returns true.
func Filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds the slice into a single value.
func Reduce[T, U any](in []T, init U, fn func(U, T) U) U {
	acc := init
	for _, v := range in {
		acc = fn(acc, v)
	}
	return acc
}

// Find returns the first element matching fn.
func Find[T any](in []T, fn func(T) bool) (T, bool) {
	for _, v := range in {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// IndexOf returns the index of the first occurrence of v, or -1.
func IndexOf[T comparable](in []T, v T) int {
	for i, e := range in {
		if e == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is present.
func Contains[T comparable](in []T, v T) bool {
	return IndexOf(in, v) >= 0
}

// Unique keeps the first occurrence of each element, preserving order.
func Unique[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Chunk splits the slice into pieces of at most size elements. A size below
// 1 yields a single chunk.
func Chunk[T any](in []T, size int) [][]T {
	if len(in) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{in}
	}
	out := make([][]T, 0, (len(in)+size-1)/size)
	for size < len(in) {
		out = append(out, in[:size:size])
		in = in[size:]
	}
	return append(out, in)
}

// Flatten concatenates nested slices.
func Flatten[T any](in [][]T) []T {
	total := 0
	for _, chunk := range in {
		total += len(chunk)
	}
	out := make([]T, 0, total)
	for _, chunk := range in {
		out = append(out, chunk...)
	}
	return out
}

// Partition splits the slice into (matching, rest).
func Partition[T any](in []T, fn func(T) bool) ([]T, []T) {
	yes := make([]T, 0, len(in))
	no := make([]T, 0, len(in))
	for _, v := range in {
		if fn(v) {
			yes = append(yes, v)
		} else {
			no = append(no, v)
		}
	}
	return yes, no
}

// GroupBy buckets elements by the key fn produces.
func GroupBy[T any, K comparable](in []T, fn func(T) K) map[K][]T {
	out := map[K][]T{}
	for _, v := range in {
		key := fn(v)
		out[key] = append(out[key], v)
	}
	return out
}

// Difference returns the elements of a that are not in b.
func Difference[T comparable](a, b []T) []T {
	drop := make(map[T]struct{}, len(b))
	for _, v := range b {
		drop[v] = struct{}{}
	}
	out := make([]T, 0, len(a))
	for _, v := range a {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// Intersect returns the elements of a that are also in b, preserving a's
// order and deduplicating.
func Intersect[T comparable](a, b []T) []T {
	keep := make(map[T]struct{}, len(b))
	for _, v := range b {
		keep[v] = struct{}{}
	}
	out := make([]T, 0, len(a))
	for _, v := range a {
		if _, ok := keep[v]; ok {
			out = append(out, v)
			delete(keep, v)
		}
	}
	return out
}

// Shuffle returns a copy with elements in random order.
func Shuffle[T any](in []T) []T {
	out := Clone(in)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Reverse returns a reversed copy.
func Reverse[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// Clone returns a shallow copy.
func Clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Compact drops zero values.
func Compact[T comparable](in []T) []T {
	var zero T
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != zero {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element if any.
func First[T any](in []T) (T, bool) {
	if len(in) == 0 {
		var zero T
		return zero, false
	}
	return in[0], true
}

// Last returns the last element if any.
func Last[T any](in []T) (T, bool) {
	if len(in) == 0 {
		var zero T
		return zero, false
	}
	return in[len(in)-1], true
}

// Number covers the built-in numeric types.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum adds all elements.
func Sum[T Number](in []T) T {
	var total T
	for _, v := range in {
		total += v
	}
	return total
}

// Min returns the smallest element; ok is false for an empty slice.
func Min[T cmp.Ordered](in []T) (T, bool) {
	if len(in) == 0 {
		var zero T
		return zero, false
	}
	out := in[0]
	for _, v := range in[1:] {
		if v < out {
			out = v
		}
	}
	return out, true
}

// Max returns the largest element; ok is false for an empty slice.
func Max[T cmp.Ordered](in []T) (T, bool) {
	if len(in) == 0 {
		var zero T
		return zero, false
	}
	out := in[0]
	for _, v := range in[1:] {
		if v > out {
			out = v
		}
	}
	return out, true
}
