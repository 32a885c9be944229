package eventbus

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bronystylecrazy/kompanion/lifecycle"
)

var ModuleName = "kompanion/eventbus"

// Module provides a process-wide *TopicBus[any], closed on shutdown.
func Module(opts ...Option) fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(func(logger *zap.Logger) *TopicBus[any] {
			logger.Debug("event bus ready")
			return NewTopic[any](opts...)
		}),
		fx.Invoke(func(lc fx.Lifecycle, bus *TopicBus[any]) {
			lifecycle.OnStop(lc, func(ctx context.Context) error {
				bus.Close()
				return nil
			})
		}),
	)
}
