package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address for Run. Default: "localhost:7070".
	Address string

	// Title is the page title. Default: "patchwork".
	Title string

	// MetricsPath mounts promhttp at this path. Empty disables it.
	MetricsPath string

	// Gatherer is scraped at MetricsPath. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// MaxMessageSize is the largest frame accepted from a browser.
	MaxMessageSize int64

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// CheckOrigin validates the websocket Origin header. The default only
	// accepts same-host origins, as gorilla/websocket does.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:         "localhost:7070",
		Title:           "patchwork",
		Gatherer:        prometheus.DefaultGatherer,
		WriteTimeout:    10 * time.Second,
		MaxMessageSize:  64 * 1024,
		ShutdownTimeout: 10 * time.Second,
	}
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}
	if out.Gatherer == nil {
		out.Gatherer = defaults.Gatherer
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &out
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
