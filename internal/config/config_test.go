package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/statekit/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d, want %d", cfg.Inspector.Port, DefaultPort)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want %q", cfg.Inspector.Host, DefaultHost)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Prefs.Backend != BackendMemory {
		t.Errorf("Prefs.Backend = %q, want %q", cfg.Prefs.Backend, BackendMemory)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); err == nil {
		t.Error("Expected error for missing config")
	}

	configJSON := `{
  "inspector": {
    "host": "0.0.0.0",
    "port": 8080,
    "doc": "fixtures/state.json"
  },
  "prefs": {
    "backend": "file",
    "dir": "prefs"
  },
  "logLevel": "debug"
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := cfg.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", got)
	}
	if got, want := cfg.DocPath(), filepath.Join(tmpDir, "fixtures/state.json"); got != want {
		t.Errorf("DocPath() = %q, want %q", got, want)
	}
	if got, want := cfg.PrefsDir(), filepath.Join(tmpDir, "prefs"); got != want {
		t.Errorf("PrefsDir() = %q, want %q", got, want)
	}
	// Unset sections still get defaults.
	if cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing.TracerName = %q", cfg.Tracing.TracerName)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", level, err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{\n  \"inspector\": {\n    \"port\": ,\n  }\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Code != "S100" {
		t.Errorf("Code = %q, want S100", e.Code)
	}
	if e.Location == nil || e.Location.Line != 3 {
		t.Errorf("Location = %v, want line 3", e.Location)
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadOrDefault(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("expected defaults, got port %d", cfg.Inspector.Port)
	}
	if got, want := cfg.PrefsDir(), filepath.Join(tmpDir, DefaultPrefsDir); got != want {
		t.Errorf("PrefsDir() = %q, want %q", got, want)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Inspector.Port = 9090
	cfg.Prefs.Backend = BackendS3
	cfg.Prefs.Bucket = "prefs-bucket"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved file should end with a newline")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if loaded.Inspector.Port != 9090 || loaded.Prefs.Bucket != "prefs-bucket" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %q, want %q", loaded.Path(), path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port too large", func(c *Config) { c.Inspector.Port = 70000 }, "S102"},
		{"negative port", func(c *Config) { c.Inspector.Port = -1 }, "S102"},
		{"unknown backend", func(c *Config) { c.Prefs.Backend = "redis" }, "S103"},
		{"s3 without bucket", func(c *Config) { c.Prefs.Backend = BackendS3 }, "S101"},
		{"s3 with bucket", func(c *Config) {
			c.Prefs.Backend = BackendS3
			c.Prefs.Bucket = "b"
		}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "S101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Code != tt.wantCode {
				t.Errorf("Validate() = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Error("Exists() should be false for an empty dir")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists() should be true once statekit.json is written")
	}
}
