package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/patchwork/pkg/middleware"
	"github.com/vango-dev/patchwork/pkg/reconcile"
)

// renderMiddleware builds the middleware chain selected by the render
// section of the config. Metrics register with reg.
func (c *cli) renderMiddleware(reg prometheus.Registerer) []reconcile.Middleware {
	chain := []reconcile.Middleware{middleware.Logging(c.logger)}
	if c.cfg.Render.Tracing {
		chain = append(chain, middleware.OpenTelemetry(middleware.WithIncludeContainer(true)))
	}
	if c.cfg.Render.Metrics && reg != nil {
		chain = append(chain, middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(metricsNamespace(c.cfg.Name)),
		))
	}
	return chain
}

// metricsNamespace turns a project name into a valid metric prefix.
func metricsNamespace(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
			out = append(out, ch)
		case ch >= '0' && ch <= '9' && len(out) > 0:
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "patchwork"
	}
	return string(out)
}
