package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.SrcDir != "src" || cfg.OutDir != "dist" || cfg.Extension != ".jsx" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.FormatEnabled() || !cfg.Cache.Enabled {
		t.Error("format and cache should be enabled by default")
	}
	if cfg.Addr() != "localhost:5180" {
		t.Errorf("Addr() = %s", cfg.Addr())
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `srcDir: components
extension: tsx
format: false
cache:
  enabled: false
dev:
  port: 9000
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"srcDir", cfg.SrcDir, "components"},
		{"outDir", cfg.OutDir, "dist"},
		{"extension", cfg.Extension, ".tsx"},
		{"format", cfg.FormatEnabled(), false},
		{"cache enabled", cfg.Cache.Enabled, false},
		{"cache dir", cfg.Cache.Dir, filepath.Join(".reactify", "cache")},
		{"cache maxEntries", cfg.Cache.MaxEntries, 1000},
		{"dev host", cfg.Dev.Host, "localhost"},
		{"dev port", cfg.Dev.Port, 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if cfg.Jobs <= 0 {
		t.Errorf("jobs default should be positive, got %d", cfg.Jobs)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad yaml", "srcDir: [unterminated", "failed to parse"},
		{"same dirs", "srcDir: app\noutDir: app\n", "outDir must differ"},
		{"negative jobs", "jobs: -2\n", "jobs must not be negative"},
		{"port range", "dev:\n  port: 70000\n", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.SrcDir = "ui"
	cfg.ShortFragments = true
	cfg.Jobs = 3
	cfg.Dev.Port = 4000

	if err := Save(cfg, dir); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.SrcDir != "ui" || !loaded.ShortFragments || loaded.Jobs != 3 || loaded.Dev.Port != 4000 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
