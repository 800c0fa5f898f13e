// Package config loads recolor configuration.
//
// Config file locations (priority order):
//  1. $RECOLOR_CONFIG
//  2. ./recolor.yaml
//
// A missing file is not an error: defaults apply.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/recolor/internal/variables"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/mappings"
)

// EnvConfigPath names the environment variable that points at the config file.
const EnvConfigPath = "RECOLOR_CONFIG"

// Config is the on-disk configuration.
type Config struct {
	NodeLimit         int    `yaml:"node_limit" json:"node_limit"`
	ImportConcurrency int    `yaml:"import_concurrency" json:"import_concurrency"`
	ProgressEvery     int    `yaml:"progress_every" json:"progress_every"`
	LogLevel          string `yaml:"log_level" json:"log_level"`

	// Mappings is a table file path. Empty uses the built-in tables.
	Mappings string `yaml:"mappings,omitempty" json:"mappings,omitempty"`

	Redis RedisConfig `yaml:"redis" json:"redis"`
	HTTP  HTTPConfig  `yaml:"http" json:"http"`
}

// RedisConfig configures the shared variable library and run lock.
// An empty Addr disables redis.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" json:"addr,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	DB       int    `yaml:"db,omitempty" json:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat("recolor.yaml"); err == nil {
		return "recolor.yaml"
	}
	return ""
}

// LoadFromPath loads config from a specific path. JSON is selected by extension.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	// Relative table paths are resolved against the config file.
	if cfg.Mappings != "" && !filepath.IsAbs(cfg.Mappings) {
		cfg.Mappings = filepath.Join(filepath.Dir(path), cfg.Mappings)
	}

	cfg.applyDefaults()
	return &cfg, path, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.NodeLimit == 0 {
		c.NodeLimit = domain.DefaultNodeLimit
	}
	if c.ImportConcurrency <= 0 {
		c.ImportConcurrency = variables.DefaultConcurrency
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = domain.DefaultProgressEvery
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "recolor:"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

// Tables loads the configured mapping tables, or the built-in ones.
func (c *Config) Tables() (domain.Tables, error) {
	if c.Mappings == "" {
		return mappings.Default(), nil
	}
	return mappings.Load(c.Mappings)
}

// Save writes config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
