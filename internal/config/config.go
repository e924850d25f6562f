// Package config resolves dfscope settings from the config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Names of files inside the config directory.
const (
	FileName    = "dfscope.yaml"
	SchemaFile  = "addresses.toml"
	CatalogDir  = "gamedata"
	HistoryFile = "history.db"
	EnvPrefix   = "DFSCOPE"
)

// Config holds every setting.
type Config struct {
	Dir     string        `mapstructure:"config_dir"`
	Verbose bool          `mapstructure:"verbose"`
	Log     LogConfig     `mapstructure:"log"`
	Process ProcessConfig `mapstructure:"process"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Serve   ServeConfig   `mapstructure:"serve"`
	History HistoryConfig `mapstructure:"history"`
	Names   NamesConfig   `mapstructure:"names"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `mapstructure:"format"` // "text" or "json"
}

// ProcessConfig identifies the target process.
type ProcessConfig struct {
	Name string `mapstructure:"name"`
}

// SchemaConfig locates the offset schema.
type SchemaConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig locates user catalog overrides.
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

// RefreshConfig sets the scheduler's backoff.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Retry    time.Duration `mapstructure:"retry"`
}

// ServeConfig configures the query service.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// HistoryConfig configures the sample recorder.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// NamesConfig sizes the rendered-name cache.
type NamesConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// DefaultProcessName is the executable name of the game on this platform.
func DefaultProcessName() string {
	if runtime.GOOS == "windows" {
		return "Dwarf Fortress.exe"
	}
	return "dwarfort"
}

// DefaultDir returns $HOME/.config/dfscope.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "dfscope"), nil
}

// SetDefaults registers every setting's default on v, with paths rooted
// at dir, and enables DFSCOPE_* environment overrides.
func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault("config_dir", dir)
	v.SetDefault("verbose", false)
	v.SetDefault("log.format", "text")
	v.SetDefault("process.name", DefaultProcessName())
	v.SetDefault("schema.path", filepath.Join(dir, SchemaFile))
	v.SetDefault("catalog.dir", filepath.Join(dir, CatalogDir))
	v.SetDefault("refresh.interval", 30*time.Second)
	v.SetDefault("refresh.retry", 5*time.Second)
	v.SetDefault("serve.addr", ":3000")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", filepath.Join(dir, HistoryFile))
	v.SetDefault("names.cache_size", 4096)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads dfscope.yaml from the configured directory, when present, and
// decodes the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	dir := v.GetString("config_dir")
	v.SetConfigFile(filepath.Join(dir, FileName))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Process.Name) == "" {
		errs = append(errs, errors.New("process.name is empty"))
	}
	if c.Refresh.Interval <= 0 {
		errs = append(errs, fmt.Errorf("refresh.interval must be positive, got %s", c.Refresh.Interval))
	}
	if c.Refresh.Retry <= 0 {
		errs = append(errs, fmt.Errorf("refresh.retry must be positive, got %s", c.Refresh.Retry))
	}
	if c.Names.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("names.cache_size must be positive, got %d", c.Names.CacheSize))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Marshal encodes the settings in config file form.
func (c *Config) Marshal() ([]byte, error) {
	doc := map[string]any{
		"log":     map[string]any{"format": c.Log.Format},
		"process": map[string]any{"name": c.Process.Name},
		"schema":  map[string]any{"path": c.Schema.Path},
		"catalog": map[string]any{"dir": c.Catalog.Dir},
		"refresh": map[string]any{
			"interval": c.Refresh.Interval.String(),
			"retry":    c.Refresh.Retry.String(),
		},
		"serve": map[string]any{"addr": c.Serve.Addr},
		"history": map[string]any{
			"enabled": c.History.Enabled,
			"path":    c.History.Path,
		},
		"names": map[string]any{"cache_size": c.Names.CacheSize},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

// Save writes the settings to path.
func (c *Config) Save(path string) error {
	out, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
