package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recera/reactify/cmd/reactify/internal/config"
	"github.com/recera/reactify/cmd/reactify/internal/prompt"
	"github.com/recera/reactify/cmd/reactify/internal/ui"
)

func plainAnswers(answers string) func(*config.Config) (*config.Config, error) {
	return func(base *config.Config) (*config.Config, error) {
		return promptConfig(prompt.New(strings.NewReader(answers), io.Discard), base), nil
	}
}

func TestRunInit_Plain(t *testing.T) {
	dir := t.TempDir()

	// src dir, out dir, extension, format, short fragments, cache, port
	answers := "components\nbuild\n2\nn\ny\n\n8080\n"
	if err := runInit(dir, false, plainAnswers(answers)); err != nil {
		t.Fatalf("runInit() failed: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"srcDir", cfg.SrcDir, "components"},
		{"outDir", cfg.OutDir, "build"},
		{"extension", cfg.Extension, ".tsx"},
		{"format", cfg.FormatEnabled(), false},
		{"shortFragments", cfg.ShortFragments, true},
		{"cache", cfg.Cache.Enabled, true},
		{"port", cfg.Dev.Port, 8080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestRunInit_Defaults(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir, false, plainAnswers("")); err != nil {
		t.Fatalf("runInit() failed: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	def := config.DefaultConfig()
	if cfg.SrcDir != def.SrcDir || cfg.Extension != def.Extension || cfg.Dev.Port != def.Dev.Port {
		t.Errorf("empty answers should keep defaults: %+v", cfg)
	}
}

func TestRunInit_Existing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeFile(t, path, "srcDir: old\n")

	if err := runInit(dir, false, plainAnswers("")); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected an already exists error, got %v", err)
	}
	if err := runInit(dir, true, plainAnswers("new\n")); err != nil {
		t.Fatalf("runInit() with force failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "srcDir: new") {
		t.Errorf("config not overwritten:\n%s", data)
	}
}

func TestRunInit_Invalid(t *testing.T) {
	dir := t.TempDir()
	err := runInit(dir, false, plainAnswers("app\napp\n"))
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); !os.IsNotExist(err) {
		t.Error("an invalid config must not be written")
	}
}

func TestRunInit_Cancelled(t *testing.T) {
	dir := t.TempDir()
	cancelled := func(*config.Config) (*config.Config, error) { return nil, ui.ErrCancelled }
	if err := runInit(dir, false, cancelled); err != nil {
		t.Fatalf("cancelling should not be an error: %v", err)
	}

	failing := func(*config.Config) (*config.Config, error) { return nil, errors.New("no tty") }
	if err := runInit(dir, false, failing); err == nil {
		t.Error("expected the wizard error")
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}
