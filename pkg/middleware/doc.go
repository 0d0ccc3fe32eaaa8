// Package middleware provides render middleware for patchwork renderers.
//
// Each middleware wraps a reconcile.RenderFunc and sees every render cycle
// with its Stats and error:
//   - Prometheus records cycle counts, durations and mutation counts
//   - OpenTelemetry opens one span per cycle
//   - Logging writes one structured line per cycle
//
// Install them when creating a renderer or an App:
//
//	r := reconcile.New(doc, reconcile.WithMiddleware(
//	    middleware.Logging(logger),
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    middleware.OpenTelemetry(),
//	))
//
// Then expose metrics:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
