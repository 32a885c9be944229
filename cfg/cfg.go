// Package cfg loads typed configuration through viper with automatic
// environment override and mapstructure decoding.
package cfg

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type Option func(*state)

type state struct {
	sourceFile   string
	configType   string
	configName   string
	configPaths  []string
	envPrefix    string
	keyReplacer  *strings.Replacer
	automaticEnv bool
	optional     bool
	defaults     map[string]any
	hooks        []func(*viper.Viper) error
}

func WithFile(path string) Option {
	return func(s *state) { s.sourceFile = path }
}

func WithType(kind string) Option {
	return func(s *state) { s.configType = kind }
}

func WithName(name string) Option {
	return func(s *state) { s.configName = name }
}

func WithPath(path string) Option {
	return func(s *state) { s.configPaths = append(s.configPaths, path) }
}

func WithOptional() Option {
	return func(s *state) { s.optional = true }
}

func WithEnvPrefix(prefix string) Option {
	return func(s *state) {
		s.envPrefix = prefix
		s.automaticEnv = true
	}
}

func WithNoEnv() Option {
	return func(s *state) {
		s.automaticEnv = false
		s.envPrefix = ""
	}
}

func WithDefault(key string, value any) Option {
	return func(s *state) {
		if s.defaults == nil {
			s.defaults = map[string]any{}
		}
		s.defaults[key] = value
	}
}

func WithViper(fn func(*viper.Viper) error) Option {
	return func(s *state) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

// Load reads configuration and decodes the given key (empty for the whole
// tree) into T. Environment variables override file values by default, with
// "." and "-" mapped to "_".
func Load[T any](key string, opts ...Option) (T, error) {
	var out T
	cfg := parse(opts)
	v, err := load(cfg)
	if err != nil {
		return out, err
	}
	return out, decode(v, key, &out)
}

// Provide registers a Load-backed constructor for T with fx.
func Provide[T any](key string, opts ...Option) fx.Option {
	return fx.Provide(func() (T, error) {
		return Load[T](key, opts...)
	})
}

func parse(opts []Option) state {
	cfg := state{
		automaticEnv: true,
		keyReplacer:  strings.NewReplacer(".", "_", "-", "_"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func hasSource(cfg state) bool {
	return cfg.sourceFile != "" || cfg.configName != "" || len(cfg.configPaths) > 0
}

func load(cfg state) (*viper.Viper, error) {
	v := viper.New()
	if cfg.envPrefix != "" {
		v.SetEnvPrefix(cfg.envPrefix)
	}
	if cfg.keyReplacer != nil {
		v.SetEnvKeyReplacer(cfg.keyReplacer)
	}
	if cfg.automaticEnv {
		v.AutomaticEnv()
	}
	if cfg.sourceFile != "" {
		v.SetConfigFile(cfg.sourceFile)
	}
	if cfg.configType != "" {
		v.SetConfigType(cfg.configType)
	} else if ext := strings.TrimPrefix(filepath.Ext(cfg.sourceFile), "."); ext != "" {
		v.SetConfigType(ext)
	}
	if cfg.configName != "" {
		v.SetConfigName(cfg.configName)
	}
	for _, p := range cfg.configPaths {
		v.AddConfigPath(p)
	}
	for k, val := range cfg.defaults {
		v.SetDefault(k, val)
	}
	for _, hook := range cfg.hooks {
		if err := hook(v); err != nil {
			return nil, err
		}
	}
	if !hasSource(cfg) {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if cfg.optional && (errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)) {
			return v, nil
		}
		if cfg.sourceFile != "" {
			if cleaned, ok := sanitize(cfg.sourceFile); ok {
				if rerr := v.ReadConfig(bytes.NewReader(cleaned)); rerr == nil {
					return v, nil
				}
			}
		}
		return nil, err
	}
	return v, nil
}

// sanitize strips BOM and zero-width-space bytes that occasionally sneak
// into hand-edited config files.
func sanitize(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	changed := false
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if i+2 < len(data) && data[i] == 0xEF && data[i+1] == 0xBB && data[i+2] == 0xBF {
			i += 2
			changed = true
			continue
		}
		if i+2 < len(data) && data[i] == 0xE2 && data[i+1] == 0x80 && data[i+2] == 0x8B {
			i += 2
			changed = true
			continue
		}
		out = append(out, data[i])
	}
	if changed {
		return out, true
	}
	return nil, false
}

func decode(v *viper.Viper, key string, out any) error {
	t := reflect.TypeOf(out)
	if t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("config target must be a pointer")
	}
	elem := t.Elem()
	if elem.Kind() != reflect.Struct {
		if key == "" {
			return v.Unmarshal(out)
		}
		return v.UnmarshalKey(key, out)
	}
	hook := viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
	if key == "" {
		return v.Unmarshal(out, hook)
	}
	return v.UnmarshalKey(key, out, hook)
}
