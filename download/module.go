package download

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/bronystylecrazy/kompanion/cfg"
	"github.com/bronystylecrazy/kompanion/lifecycle"
)

var ModuleName = "kompanion/download"

// Config tunes the worker pool.
type Config struct {
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue-size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	Dir       string        `mapstructure:"dir"`
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = 4
	}
	if c.QueueSize < 1 {
		c.QueueSize = 64
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Dir == "" {
		c.Dir = "downloads"
	}
	return c
}

// Module provides a Manager from the "download" config key and drains it
// on shutdown.
func Module(extends ...fx.Option) fx.Option {
	opts := []fx.Option{
		cfg.Provide[Config]("download",
			cfg.WithFile("config.toml"),
			cfg.WithOptional(),
		),
		fx.Provide(New),
		fx.Invoke(func(lc fx.Lifecycle, m *Manager) {
			lifecycle.OnStop(lc, func(ctx context.Context) error {
				return m.Stop(ctx)
			})
		}),
	}
	return fx.Module(ModuleName, append(opts, extends...)...)
}
