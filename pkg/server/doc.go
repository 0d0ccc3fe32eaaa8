// Package server is the live preview server.
//
// It serves a page showing an App's container and keeps open browsers in
// sync over a websocket. Every render broadcasts the memdom mutation log
// and the new container HTML. Browsers send clicks and input back as event
// frames, which are dispatched through the App's delegator.
//
// Routes:
//
//	GET /          preview page
//	GET /healthz   liveness probe
//	GET /ws        websocket
//	GET /metrics   Prometheus scrape endpoint, when Config.MetricsPath is set
//
// All access to the App and the document happens under one mutex, so
// renders never overlap no matter how many browsers are connected.
package server
