package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/distkv-go/internal/infra/confloader"
)

// EnvPrefix is the prefix of CLI environment variables, e.g. DISTKV_CLI_ADDR.
const EnvPrefix = "DISTKV_CLI_"

// DefaultConfigPath returns ~/.distkv/cli.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".distkv", "cli.yaml")
}

// Load reads the file at path (default DefaultConfigPath) over the defaults,
// then the environment. A missing file is not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithEnvPrefix(EnvPrefix),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

// fileConfig is the on-disk form; durations are written as strings.
type fileConfig struct {
	Addr    string `yaml:"addr"`
	Socket  string `yaml:"socket,omitempty"`
	HTTP    string `yaml:"http,omitempty"`
	Output  string `yaml:"output"`
	Timeout string `yaml:"timeout"`
	History string `yaml:"history,omitempty"`
}

// Save writes cfg to path (default DefaultConfigPath) with mode 0600.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no config path and no home directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(fileConfig{
		Addr:    cfg.Addr,
		Socket:  cfg.Socket,
		HTTP:    cfg.HTTP,
		Output:  cfg.Output,
		Timeout: cfg.Timeout.String(),
		History: cfg.History,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
