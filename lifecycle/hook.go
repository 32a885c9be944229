package lifecycle

import (
	"context"

	"go.uber.org/fx"
)

// Hook registers Start/Stop fx hooks for values implementing Starter,
// Stopper, or both. Non-lifecycle values are ignored.
func Hook(lc fx.Lifecycle, v any) {
	starter, isStarter := v.(Starter)
	stopper, isStopper := v.(Stopper)
	if !isStarter && !isStopper {
		return
	}
	hook := fx.Hook{}
	if isStarter {
		hook.OnStart = starter.Start
	}
	if isStopper {
		hook.OnStop = stopper.Stop
	}
	lc.Append(hook)
}

// OnStart registers a start-only hook.
func OnStart(lc fx.Lifecycle, fn func(ctx context.Context) error) {
	lc.Append(fx.Hook{OnStart: fn})
}

// OnStop registers a stop-only hook.
func OnStop(lc fx.Lifecycle, fn func(ctx context.Context) error) {
	lc.Append(fx.Hook{OnStop: fn})
}
