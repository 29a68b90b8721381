package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/modules"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.json"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:7070"

	// DefaultMaxBodyBytes bounds a posted tree document.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultBufferSize is the default websocket buffer size.
	DefaultBufferSize = 1024

	// DefaultSnapshotDir is the default directory of the disk snapshot backend.
	DefaultSnapshotDir = ".vtree/snapshots"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vtree"

	// DefaultTracerName is the default tracer name.
	DefaultTracerName = "vtree"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Modules lists the patch modules in registration order.
	Modules []string `json:"modules,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Snapshot selects where session trees are persisted.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// ReadBufferSize is the websocket read buffer size in bytes.
	ReadBufferSize int `json:"readBufferSize,omitempty"`

	// WriteBufferSize is the websocket write buffer size in bytes.
	WriteBufferSize int `json:"writeBufferSize,omitempty"`

	// MaxBodyBytes bounds the size of a posted tree document.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty"`

	// AllowedOrigins lists websocket origins to accept. Empty means same
	// origin only; "*" accepts any origin.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// SnapshotConfig contains snapshot store settings.
type SnapshotConfig struct {
	// Backend is "disk", "s3" or "none".
	Backend string `json:"backend,omitempty"`

	// Dir is the directory of the disk backend.
	Dir string `json:"dir,omitempty"`

	// Bucket is the bucket of the s3 backend.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to s3 object keys.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the AWS region.
	Region string `json:"region,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled"`
	TracerName string `json:"tracerName,omitempty"`

	// Exporter is "otlp" (OTLP over HTTP, endpoint from the standard
	// OTEL_EXPORTER_OTLP_* variables) or "stdout".
	Exporter string `json:"exporter,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Modules:  slices.Clone(modules.DefaultNames),
		LogLevel: "info",
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadBufferSize:  DefaultBufferSize,
			WriteBufferSize: DefaultBufferSize,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Snapshot: SnapshotConfig{
			Backend: "none",
			Dir:     DefaultSnapshotDir,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
			Exporter:   "otlp",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vtree.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
// Fields absent from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No vtree.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vtree.json or run without a config to use defaults").
				Wrap(err)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E120").
			WithDetail("Failed to parse vtree.json: " + err.Error()).
			WithSuggestion("Check that vtree.json is valid JSON")
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			e = e.At(path, data, syntaxErr.Offset)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads dir/vtree.json, or returns the defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Modules == nil {
		c.Modules = slices.Clone(modules.DefaultNames)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = DefaultBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = DefaultBufferSize
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Snapshot
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "none"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}

	// Observability
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "otlp"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Modules))
	for _, name := range c.Modules {
		if !slices.Contains(modules.DefaultNames, name) {
			return errors.New("E121").
				WithDetailf("Unknown module %q", name).
				WithSuggestion("Known modules: " + strings.Join(modules.DefaultNames, ", "))
		}
		if seen[name] {
			return errors.New("E121").WithDetailf("Module %q is listed twice", name)
		}
		seen[name] = true
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("E121").
			WithDetailf("Unknown log level %q", c.LogLevel).
			WithSuggestion("Use one of debug, info, warn, error")
	}

	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return errors.New("E121").WithDetail("Websocket buffer sizes must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("E121").WithDetail("maxBodyBytes must not be negative")
	}

	switch c.Snapshot.Backend {
	case "", "none":
	case "disk":
		if c.Snapshot.Dir == "" {
			return errors.New("E121").WithDetail("The disk snapshot backend needs a dir")
		}
	case "s3":
		if c.Snapshot.Bucket == "" {
			return errors.New("E121").WithDetail("The s3 snapshot backend needs a bucket")
		}
	default:
		return errors.New("E121").
			WithDetailf("Unknown snapshot backend %q", c.Snapshot.Backend).
			WithSuggestion(`Use "disk", "s3" or "none"`)
	}

	switch c.Tracing.Exporter {
	case "", "otlp", "stdout":
	default:
		return errors.New("E121").
			WithDetailf("Unknown trace exporter %q", c.Tracing.Exporter).
			WithSuggestion(`Use "otlp" or "stdout"`)
	}
	return nil
}

// SlogLevel returns the configured log level, or info when it is unknown.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
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

// SnapshotPath returns the absolute path to the snapshot directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vtree.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E120").
				WithDetail("No vtree.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest vtree.json at or
// above the current working directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}

	return Load(root)
}
