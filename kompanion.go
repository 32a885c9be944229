// Package kompanion is a general-purpose utility library: small,
// independently importable helper packages (numx, strx, slicex, syncx, ...)
// plus a few miniature stateful components (prefs, eventbus, fsm, undo,
// download) that can be wired through fx.
package kompanion

import (
	"go.uber.org/fx"

	"github.com/bronystylecrazy/kompanion/log"
)

type App struct {
	opts []fx.Option
}

// New assembles an fx application with the default kompanion modules.
// Additional options extend or override the defaults.
func New(opts ...fx.Option) *App {
	all := append(defaultOptions(), opts...)
	return &App{opts: all}
}

func (a *App) Build() fx.Option {
	return fx.Options(a.opts...)
}

func (a *App) Run() {
	fx.New(a.Build()).Run()
}

func defaultOptions() []fx.Option {
	return []fx.Option{
		log.Module(),
	}
}
