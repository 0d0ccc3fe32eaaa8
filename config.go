package patchwork

import (
	"log/slog"

	"github.com/vango-dev/patchwork/pkg/events"
	"github.com/vango-dev/patchwork/pkg/reconcile"
)

// Config is the programmatic configuration of an App.
type Config struct {
	// Logger is the structured logger for the App and its renderer.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Middleware wraps every render cycle. The first entry is outermost.
	// See pkg/middleware for metrics, tracing and logging.
	Middleware []reconcile.Middleware

	// Bridge receives event bindings from the renderer. If nil, the App
	// creates an events.Delegator, available through Delegator().
	Bridge events.Bridge
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
