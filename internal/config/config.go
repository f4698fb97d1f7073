// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for roomprefs.
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	Room         string        `mapstructure:"room"`
	Debounce     time.Duration `mapstructure:"debounce"`
	Latency      time.Duration `mapstructure:"latency"`
	ClickTimeout time.Duration `mapstructure:"click_timeout"`
	HooksFile    string        `mapstructure:"hooks_file"`
}

// Defaults applied before any file or environment value.
const (
	DefaultDataDir      = ".roomprefs"
	DefaultDebounce     = 500 * time.Millisecond
	DefaultClickTimeout = 30 * time.Second
	DefaultHooksFile    = ".roomprefs.hooks.yml"
)

var keys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"room",
	"debounce",
	"latency",
	"click_timeout",
	"hooks_file",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadWith is Load with a caller-supplied viper instance, which lets the
// CLI bind its flags before the files and environment are read.
func LoadWith(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigType("yaml")

	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("room", "")
	v.SetDefault("debounce", DefaultDebounce.String())
	v.SetDefault("latency", "0s")
	v.SetDefault("click_timeout", DefaultClickTimeout.String())
	v.SetDefault("hooks_file", DefaultHooksFile)

	v.SetEnvPrefix("ROOMPREFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key, "ROOMPREFS_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if globalPath := GlobalPath(); fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if projectPath := ProjectPath(); fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be >= 0, got %s", c.Debounce)
	}
	if c.Latency < 0 {
		return fmt.Errorf("latency must be >= 0, got %s", c.Latency)
	}
	if c.ClickTimeout <= 0 {
		return fmt.Errorf("click_timeout must be > 0, got %s", c.ClickTimeout)
	}
	return nil
}

// NATSDir returns the directory holding the embedded server's storage and port file.
func (c *Config) NATSDir() string {
	return filepath.Join(c.DataDir, "nats")
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/roomprefs/roomprefs.yml or $XDG_CONFIG_HOME/roomprefs/roomprefs.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roomprefs", "roomprefs.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "roomprefs", "roomprefs.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "roomprefs.yml"
}

// fileConfig is the on-disk shape. Durations are written in their string
// form so the files stay hand-editable.
type fileConfig struct {
	DataDir      string `yaml:"data_dir"`
	LogLevel     string `yaml:"log_level,omitempty"`
	LogFile      string `yaml:"log_file,omitempty"`
	Room         string `yaml:"room,omitempty"`
	Debounce     string `yaml:"debounce"`
	Latency      string `yaml:"latency,omitempty"`
	ClickTimeout string `yaml:"click_timeout"`
	HooksFile    string `yaml:"hooks_file,omitempty"`
}

func toFile(cfg *Config) fileConfig {
	fc := fileConfig{
		DataDir:      cfg.DataDir,
		LogLevel:     cfg.LogLevel,
		LogFile:      cfg.LogFile,
		Room:         cfg.Room,
		Debounce:     cfg.Debounce.String(),
		ClickTimeout: cfg.ClickTimeout.String(),
		HooksFile:    cfg.HooksFile,
	}
	if cfg.Latency > 0 {
		fc.Latency = cfg.Latency.String()
	}
	return fc
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(toFile(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
