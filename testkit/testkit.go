// Package testkit has helpers for testing fx-wired kompanion modules.
package testkit

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// App wraps fxtest.App for fluent start/stop in tests.
type App struct {
	app *fxtest.App
}

// New builds a test app from fx options.
func New(t testing.TB, opts ...fx.Option) *App {
	t.Helper()
	return &App{app: fxtest.New(t, opts...)}
}

// RequireStart starts the app and fails the test on error.
func (a *App) RequireStart() *App {
	a.app.RequireStart()
	return a
}

// RequireStop stops the app and fails the test on error.
func (a *App) RequireStop() *App {
	a.app.RequireStop()
	return a
}

// Fx exposes the underlying fxtest.App.
func (a *App) Fx() *fxtest.App {
	return a.app
}

// Redis spins up a miniredis for the test and returns a connected client.
// Both are torn down in test cleanup.
func Redis(t testing.TB) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}
