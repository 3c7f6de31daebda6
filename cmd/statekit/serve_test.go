package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vango-dev/statekit/internal/config"
)

func TestLoadServeConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"inspector":{"port":9000,"doc":"a.json"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadServeConfig(serveOptions{configPath: path})
	if err != nil {
		t.Fatalf("loadServeConfig() error: %v", err)
	}
	if cfg.Inspector.Port != 9000 || cfg.Inspector.Doc != "a.json" {
		t.Errorf("config not loaded: %+v", cfg.Inspector)
	}

	cfg, err = loadServeConfig(serveOptions{configPath: path, addr: ":8081", doc: "b.json"})
	if err != nil {
		t.Fatalf("loadServeConfig() error: %v", err)
	}
	if cfg.Address() != ":8081" || cfg.Inspector.Doc != "b.json" {
		t.Errorf("flags not applied: %s %s", cfg.Address(), cfg.Inspector.Doc)
	}

	if _, err := loadServeConfig(serveOptions{configPath: path, addr: "nonsense"}); err == nil {
		t.Error("expected error for a malformed --addr")
	}
	if _, err := loadServeConfig(serveOptions{configPath: path, addr: ":99999"}); err == nil {
		t.Error("expected error for an out of range port")
	}
}

func TestBootstrapInstallsInspector(t *testing.T) {
	want := []string{"logging", "metrics", "prefs", "inspector"}
	if got := bootstrap.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("bootstrap.Names() = %v, want %v", got, want)
	}

	cfg := config.New()
	cfg.LogLevel = "error"
	a := &app{
		ctx:     context.Background(),
		cfg:     cfg,
		initial: map[string]any{"name": "Harry"},
	}
	if err := bootstrap.InstallAll(a); err != nil {
		t.Fatalf("InstallAll() error: %v", err)
	}
	defer a.server.Close()

	if a.logger == nil || a.metrics == nil || a.store == nil || a.persister == nil {
		t.Fatalf("app not fully assembled: %+v", a)
	}
	if a.server.Dirty() {
		t.Error("fresh inspector should be clean")
	}
}

func TestSplitAddr(t *testing.T) {
	host, port, err := splitAddr("127.0.0.1:7070")
	if err != nil || host != "127.0.0.1" || port != 7070 {
		t.Errorf("splitAddr() = %q, %d, %v", host, port, err)
	}
	if _, _, err := splitAddr("127.0.0.1:http"); err == nil {
		t.Error("expected error for a named port")
	}
}
