// Package lifecycle defines the start/stop contracts shared by kompanion's
// stateful components and adapters to register them with fx.
package lifecycle

import "context"

type Starter interface {
	Start(ctx context.Context) error
}

type Stopper interface {
	Stop(ctx context.Context) error
}
