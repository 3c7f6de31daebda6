package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/statekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statekit.json"

	DefaultHost       = "localhost"
	DefaultPort       = 7070
	DefaultNamespace  = "statekit"
	DefaultTracerName = "statekit/inspector"
	DefaultPrefsDir   = ".statekit/prefs"
	DefaultLogLevel   = "info"
)

// Preference backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendS3     = "s3"
)

// Config represents statekit.json.
type Config struct {
	Inspector InspectorConfig `json:"inspector"`
	Metrics   MetricsConfig   `json:"metrics"`
	Tracing   TracingConfig   `json:"tracing"`
	Prefs     PrefsConfig     `json:"prefs"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	configPath string
}

// InspectorConfig configures the HTTP inspector.
type InspectorConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Doc is the JSON document served as the initial state. Empty means
	// start from an empty object.
	Doc string `json:"doc,omitempty"`
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	TracerName string `json:"tracerName,omitempty"`
}

// PrefsConfig selects where application preferences are persisted.
type PrefsConfig struct {
	// Backend is memory, file or s3.
	Backend string `json:"backend,omitempty"`

	// Dir is the directory used by the file backend.
	Dir string `json:"dir,omitempty"`

	// Bucket and Prefix are used by the s3 backend.
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads statekit.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns defaults when dir has no
// statekit.json.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		c := New()
		c.configPath = filepath.Join(dir, ConfigFileName)
		return c, nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("S100").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Omit --config to run with defaults")
		}
		return nil, errors.New("S100").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("S100").
			WithJSONLocation(path, data, err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("S100").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("S100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
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

func (c *Config) applyDefaults() {
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Prefs.Backend == "" {
		c.Prefs.Backend = BackendMemory
	}
	if c.Prefs.Dir == "" {
		c.Prefs.Dir = DefaultPrefsDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Inspector.Port < 1 || c.Inspector.Port > 65535 {
		return errors.New("S102").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Inspector.Port))
	}

	switch c.Prefs.Backend {
	case BackendMemory, BackendFile:
	case BackendS3:
		if c.Prefs.Bucket == "" {
			return errors.New("S101").
				WithDetail("prefs.bucket is required when prefs.backend is s3")
		}
	default:
		return errors.New("S103").
			WithSuggestion(`Set "prefs": {"backend": "file"}`).
			Wrap(errors.Newf(errors.CategoryConfig, "unknown backend %q", c.Prefs.Backend))
	}

	if _, err := c.Level(); err != nil {
		return errors.New("S101").
			WithDetail("logLevel must be one of debug, info, warn or error").
			Wrap(err)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// Address returns the inspector listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Inspector.Host, strconv.Itoa(c.Inspector.Port))
}

// DocPath returns the initial document path resolved against Dir, or "".
func (c *Config) DocPath() string {
	return c.resolve(c.Inspector.Doc)
}

// PrefsDir returns the file backend directory resolved against Dir.
func (c *Config) PrefsDir() string {
	return c.resolve(c.Prefs.Dir)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Exists checks if a config file exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
