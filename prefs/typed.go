package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Get reads key and decodes it into T. Strings are stored verbatim, bools,
// integers, floats and durations via strconv, everything else as JSON.
func Get[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return out, ok, err
	}
	if err := decodeValue(raw, &out); err != nil {
		return out, false, fmt.Errorf("prefs: decode %q: %w", key, err)
	}
	return out, true, nil
}

// GetOr reads key, falling back to def when missing or on error.
func GetOr[T any](ctx context.Context, s Store, key string, def T) T {
	out, ok, err := Get[T](ctx, s, key)
	if err != nil || !ok {
		return def
	}
	return out
}

// Set encodes value with the scheme described on Get and stores it.
func Set[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := encodeValue(value)
	if err != nil {
		return fmt.Errorf("prefs: encode %q: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

func encodeValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Duration:
		return v.String(), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

func decodeValue(raw string, out any) error {
	switch p := out.(type) {
	case *string:
		*p = raw
		return nil
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*p = v
		return nil
	case *time.Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*p = v
		return nil
	default:
		return json.Unmarshal([]byte(raw), out)
	}
}
