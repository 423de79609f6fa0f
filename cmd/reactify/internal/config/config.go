package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "reactify.yaml"

// Config represents the reactify.yaml configuration
type Config struct {
	// Directory scanned for components
	SrcDir string `yaml:"srcDir"`

	// Directory the generated modules are written to
	OutDir string `yaml:"outDir"`

	// Extension of generated modules, e.g. ".jsx"
	Extension string `yaml:"extension"`

	// Whether to reprint output with the formatter
	Format *bool `yaml:"format,omitempty"`

	// Whether fragments are written as <>...</>
	ShortFragments bool `yaml:"shortFragments"`

	// Number of components compiled at once
	Jobs int `yaml:"jobs"`

	// Output cache configuration
	Cache *CacheConfig `yaml:"cache,omitempty"`

	// Development server configuration
	Dev *DevConfig `yaml:"dev,omitempty"`
}

// CacheConfig contains output cache configuration
type CacheConfig struct {
	// Whether compiled outputs are cached
	Enabled bool `yaml:"enabled"`

	// Cache directory
	Dir string `yaml:"dir"`

	// Maximum number of cached outputs
	MaxEntries int `yaml:"maxEntries"`
}

// DevConfig contains development server configuration
type DevConfig struct {
	// Server host
	Host string `yaml:"host"`

	// Server port
	Port int `yaml:"port"`
}

// Load loads configuration from reactify.yaml in projectPath. Without a
// file the defaults are returned.
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, FileName)

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}
	return &config, nil
}

// Save saves configuration to reactify.yaml in projectPath
func Save(config *Config, projectPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	configPath := filepath.Join(projectPath, FileName)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	format := true
	return &Config{
		SrcDir:    "src",
		OutDir:    "dist",
		Extension: ".jsx",
		Format:    &format,
		Jobs:      runtime.NumCPU(),
		Cache: &CacheConfig{
			Enabled:    true,
			Dir:        filepath.Join(".reactify", "cache"),
			MaxEntries: 1000,
		},
		Dev: &DevConfig{
			Host: "localhost",
			Port: 5180,
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.SrcDir == "" {
		config.SrcDir = defaults.SrcDir
	}
	if config.OutDir == "" {
		config.OutDir = defaults.OutDir
	}
	if config.Extension == "" {
		config.Extension = defaults.Extension
	} else if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Format == nil {
		config.Format = defaults.Format
	}
	if config.Jobs == 0 {
		config.Jobs = defaults.Jobs
	}

	// Apply cache defaults
	if config.Cache == nil {
		config.Cache = defaults.Cache
	} else {
		if config.Cache.Dir == "" {
			config.Cache.Dir = defaults.Cache.Dir
		}
		if config.Cache.MaxEntries == 0 {
			config.Cache.MaxEntries = defaults.Cache.MaxEntries
		}
	}

	// Apply dev server defaults
	if config.Dev == nil {
		config.Dev = defaults.Dev
	} else {
		if config.Dev.Host == "" {
			config.Dev.Host = defaults.Dev.Host
		}
		if config.Dev.Port == 0 {
			config.Dev.Port = defaults.Dev.Port
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.SrcDir == "" {
		errs = append(errs, errors.New("srcDir must not be empty"))
	}
	if c.OutDir == "" {
		errs = append(errs, errors.New("outDir must not be empty"))
	}
	if c.SrcDir != "" && filepath.Clean(c.SrcDir) == filepath.Clean(c.OutDir) {
		errs = append(errs, errors.New("outDir must differ from srcDir"))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if c.Cache != nil && c.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache.maxEntries must not be negative, got %d", c.Cache.MaxEntries))
	}
	if c.Dev != nil && (c.Dev.Port < 0 || c.Dev.Port > 65535) {
		errs = append(errs, fmt.Errorf("dev.port %d is out of range", c.Dev.Port))
	}

	return errors.Join(errs...)
}

// FormatEnabled reports whether output is reprinted with the formatter.
func (c *Config) FormatEnabled() bool {
	return c.Format == nil || *c.Format
}

// Addr returns the dev server listen address.
func (c *Config) Addr() string {
	if c.Dev == nil {
		return fmt.Sprintf("%s:%d", DefaultConfig().Dev.Host, DefaultConfig().Dev.Port)
	}
	return fmt.Sprintf("%s:%d", c.Dev.Host, c.Dev.Port)
}
