package prefs

import (
	"context"
	"testing"
	"time"
)

func TestTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Memory()
	defer s.Close()

	type profile struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	}

	if err := Set(ctx, s, "str", "plain"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if err := Set(ctx, s, "bool", true); err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if err := Set(ctx, s, "int", 42); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := Set(ctx, s, "float", 2.5); err != nil {
		t.Fatalf("set float: %v", err)
	}
	if err := Set(ctx, s, "dur", 90*time.Second); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	if err := Set(ctx, s, "obj", profile{Name: "kom", Level: 3}); err != nil {
		t.Fatalf("set struct: %v", err)
	}

	if got, _, _ := Get[string](ctx, s, "str"); got != "plain" {
		t.Fatalf("string = %q", got)
	}
	if got, _, _ := Get[bool](ctx, s, "bool"); !got {
		t.Fatalf("bool = %v", got)
	}
	if got, _, _ := Get[int](ctx, s, "int"); got != 42 {
		t.Fatalf("int = %d", got)
	}
	if got, _, _ := Get[float64](ctx, s, "float"); got != 2.5 {
		t.Fatalf("float = %v", got)
	}
	if got, _, _ := Get[time.Duration](ctx, s, "dur"); got != 90*time.Second {
		t.Fatalf("duration = %v", got)
	}
	got, ok, err := Get[profile](ctx, s, "obj")
	if err != nil || !ok {
		t.Fatalf("struct get = (%v, %v)", ok, err)
	}
	if got.Name != "kom" || got.Level != 3 {
		t.Fatalf("struct = %+v", got)
	}
}

func TestTypedDecodeError(t *testing.T) {
	ctx := context.Background()
	s := Memory()
	defer s.Close()

	if err := s.Set(ctx, "int", "not-a-number"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, _, err := Get[int](ctx, s, "int"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestGetOr(t *testing.T) {
	ctx := context.Background()
	s := Memory()
	defer s.Close()

	if got := GetOr(ctx, s, "missing", 7); got != 7 {
		t.Fatalf("GetOr fallback = %d", got)
	}
	if err := Set(ctx, s, "present", 9); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := GetOr(ctx, s, "present", 7); got != 9 {
		t.Fatalf("GetOr present = %d", got)
	}
}
