package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SourcePath string `toml:"source_path"`
	DBPath     string `toml:"db_path"`
	LogLevel   string `toml:"log_level"`
}

// Load builds the config from defaults, ~/.config/caralog/config.toml and
// CARALOG_* environment variables, in that order of precedence.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(home, ".config", "caralog", "config.toml"), home)
}

// LoadFrom is Load with an explicit config file and home directory.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		SourcePath: filepath.Join(home, ".config", "caralog", "tracking.jsonl"),
		DBPath:     filepath.Join(home, ".config", "caralog", "logs.db"),
		LogLevel:   "info",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.applyEnv()

	// expand ~ in paths
	cfg.SourcePath = expandHome(cfg.SourcePath, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CARALOG_SOURCE"); v != "" {
		c.SourcePath = v
	}
	if v := os.Getenv("CARALOG_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CARALOG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("source_path is empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
