package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vango-dev/patchwork/internal/errors"
)

const (
	// DefaultPort is the default preview server port.
	DefaultPort = 3100

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the preview server exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"
)

// FileNames are the configuration file names looked up, in order.
var FileNames = []string{"patchwork.yaml", "patchwork.yml", "patchwork.json"}

// Config represents the complete patchwork configuration file.
type Config struct {
	// Name is the project name, used as the metrics namespace suffix and page title.
	Name string `yaml:"name,omitempty"`

	// Server configures the preview server.
	Server ServerConfig `yaml:"server,omitempty"`

	// Render configures render-cycle instrumentation.
	Render RenderConfig `yaml:"render,omitempty"`

	// Snapshot configures where rendered HTML snapshots are written.
	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`

	configPath string
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// MetricsPath is the Prometheus scrape path. Empty disables the endpoint
	// unless Render.Metrics is set, in which case the default is used.
	MetricsPath string `yaml:"metricsPath,omitempty"`
}

// RenderConfig toggles the render middleware chain.
type RenderConfig struct {
	Metrics  bool   `yaml:"metrics,omitempty"`
	Tracing  bool   `yaml:"tracing,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`
}

// SnapshotConfig selects a snapshot store. S3 wins when a bucket is set.
type SnapshotConfig struct {
	Dir string   `yaml:"dir,omitempty"`
	S3  S3Config `yaml:"s3,omitempty"`
}

// S3Config locates snapshots in an S3 bucket.
type S3Config struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Name: "patchwork",
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
		},
		Render: RenderConfig{
			Metrics:  true,
			LogLevel: DefaultLogLevel,
		},
	}
}

// Find returns the first configuration file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load loads the configuration file from dir, or the defaults if none exists.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFromWorkingDir loads the configuration from the current directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}
	return Load(wd)
}

// LoadFile loads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E301").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E301").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid YAML or JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to the path it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration as YAML.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E301").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E301").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "patchwork"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Render.Metrics && c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Render.LogLevel == "" {
		c.Render.LogLevel = DefaultLogLevel
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E302").
			WithDetail("server.port must be between 0 and 65535").
			WithSuggestion("Use 0 to let the OS pick a free port")
	}
	if _, ok := parseLevel(c.Render.LogLevel); !ok {
		return errors.New("E302").
			WithDetail("render.logLevel must be one of debug, info, warn, error")
	}
	if c.Server.MetricsPath != "" && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.New("E302").
			WithDetail("server.metricsPath must start with /")
	}
	return nil
}

// LogLevel returns the slog level configured in render.logLevel.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Render.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
