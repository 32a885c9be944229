package log

import "go.uber.org/zap/zapcore"

// FilterFieldsCore wraps core so log entries never carry the named field
// keys. New installs it when Config.DropFields is set, which keeps
// secrets like passwords or tokens out of the output.
func FilterFieldsCore(core zapcore.Core, keys ...string) zapcore.Core {
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			drop[key] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return core
	}
	return &dropFieldsCore{inner: core, drop: drop}
}

type dropFieldsCore struct {
	inner zapcore.Core
	drop  map[string]struct{}
}

func (c *dropFieldsCore) Enabled(level zapcore.Level) bool {
	return c.inner.Enabled(level)
}

func (c *dropFieldsCore) With(fields []zapcore.Field) zapcore.Core {
	return &dropFieldsCore{inner: c.inner.With(c.redact(fields)), drop: c.drop}
}

// Check registers the wrapper itself so Write sees every field.
func (c *dropFieldsCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *dropFieldsCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.inner.Write(entry, c.redact(fields))
}

func (c *dropFieldsCore) Sync() error {
	return c.inner.Sync()
}

func (c *dropFieldsCore) redact(fields []zapcore.Field) []zapcore.Field {
	kept := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if _, secret := c.drop[field.Key]; secret {
			continue
		}
		kept = append(kept, field)
	}
	return kept
}
