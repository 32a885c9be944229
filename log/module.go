package log

import (
	"go.uber.org/fx"

	"github.com/bronystylecrazy/kompanion/buildinfo"
	"github.com/bronystylecrazy/kompanion/cfg"
)

var ModuleName = "kompanion/log"

// Module provides a *zap.Logger from the "log" config key and routes fx
// events through it.
func Module(extends ...fx.Option) fx.Option {
	level := "info"
	if buildinfo.IsDevelopment() {
		level = "debug"
	}
	opts := []fx.Option{
		cfg.Provide[Config]("log",
			cfg.WithFile("config.toml"),
			cfg.WithOptional(),
			cfg.WithDefault("log.level", level),
		),
		fx.Provide(New),
		fx.WithLogger(NewEventLogger),
	}
	return fx.Module(ModuleName, append(opts, extends...)...)
}
