package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":8080" || cfg.Generator.MaxQuantity != 500 || cfg.Generator.DefaultQuantity != 50 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Generator.DefaultBias != 0.5 || cfg.Export.Compression != "none" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
listen: ":9090"
log_format: json
generator:
  max_quantity: 200
  default_quantity: 20
  default_bias: 0.8
  seed: 42
export:
  compression: gzip
`)
	t.Setenv("LOGGEN_GENERATOR__MAX_QUANTITY", "300")
	t.Setenv("LOGGEN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.LogFormat != "json" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Generator.MaxQuantity != 300 {
		t.Fatalf("expected env to override max_quantity, got %d", cfg.Generator.MaxQuantity)
	}
	if cfg.Generator.DefaultQuantity != 20 || cfg.Generator.DefaultBias != 0.8 || cfg.Generator.Seed != 42 {
		t.Fatalf("unexpected generator config: %+v", cfg.Generator)
	}
	if cfg.Export.Compression != "gzip" {
		t.Fatalf("unexpected compression %q", cfg.Export.Compression)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bias":             "generator:\n  default_bias: 1.5\n",
		"compression":      "export:\n  compression: brotli\n",
		"default over max": "generator:\n  max_quantity: 10\n  default_quantity: 20\n",
		"log format":       "log_format: xml\n",
		"yaml":             "listen: [\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+".yaml")
		writeFile(t, path, body)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "generator:\n  max_quantity: 100\n  default_quantity: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zerolog.Nop(), func(c *Config) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "generator:\n  max_quantity: 250\n  default_quantity: 10\n")

	select {
	case cfg := <-changes:
		if cfg.Generator.MaxQuantity != 250 {
			t.Fatalf("expected reloaded max_quantity 250, got %d", cfg.Generator.MaxQuantity)
		}
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("config was not reloaded in time")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
