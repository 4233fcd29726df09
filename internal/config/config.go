// Package config loads loom's optional YAML configuration file: the Sentry
// DSN, the Prometheus registration toggle, and the log level an embedding
// application wants the ambient stack to start with. Nothing in the core
// renderer requires a config file to exist; cmd/loomctl is the only
// consumer that reads one off disk.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the shape of loom.yaml.
type Config struct {
	SentryDSN      string `yaml:"sentry_dsn"`
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsAddr    string `yaml:"metrics_addr"`
}

// Default returns a Config with loom's built-in defaults: no Sentry DSN,
// info-level logging, metrics disabled.
func Default() Config {
	return Config{
		LogLevel:    "info",
		MetricsAddr: ":9090",
	}
}

// Load reads and parses path, overlaying it onto Default(). A missing file
// is not an error: Load returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
