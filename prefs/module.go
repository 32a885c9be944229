package prefs

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bronystylecrazy/kompanion/cfg"
	"github.com/bronystylecrazy/kompanion/lifecycle"
)

var ModuleName = "kompanion/prefs"

// Config selects and parameterizes the store backend. When Passphrase is
// set, values are encrypted at rest regardless of backend.
type Config struct {
	Backend    string      `mapstructure:"backend"`
	Path       string      `mapstructure:"path"`
	Namespace  string      `mapstructure:"namespace"`
	Passphrase string      `mapstructure:"passphrase"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// New builds a Store from config. Backends: "memory" (default), "file",
// "redis".
func New(config Config, logger *zap.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch config.Backend {
	case "", "memory":
		store = Memory()
	case "file":
		if config.Path == "" {
			return nil, fmt.Errorf("prefs: file backend requires path")
		}
		store, err = File(config.Path)
		if err != nil {
			return nil, err
		}
	case "redis":
		client, cerr := NewRedisClient(config.Redis)
		if cerr != nil {
			return nil, cerr
		}
		var opts []RedisOption
		if config.Namespace != "" {
			opts = append(opts, WithNamespace(config.Namespace))
		}
		rs := Redis(client, opts...).(*redisStore)
		rs.closer = client.Close
		store = rs
	default:
		return nil, fmt.Errorf("prefs: unknown backend %q", config.Backend)
	}
	if config.Passphrase != "" {
		store = Encrypted(store, config.Passphrase)
	}
	logger.Debug("preference store ready",
		zap.String("backend", defaultString(config.Backend, "memory")),
		zap.Bool("encrypted", config.Passphrase != ""),
	)
	return store, nil
}

// Module provides a Store from the "prefs" config key and closes it on
// shutdown.
func Module(extends ...fx.Option) fx.Option {
	opts := []fx.Option{
		cfg.Provide[Config]("prefs",
			cfg.WithFile("config.toml"),
			cfg.WithOptional(),
		),
		fx.Provide(New),
		fx.Invoke(func(lc fx.Lifecycle, store Store) {
			lifecycle.OnStop(lc, func(ctx context.Context) error {
				return store.Close()
			})
		}),
	}
	return fx.Module(ModuleName, append(opts, extends...)...)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
