package config

import "time"

// CLIConfig is the configuration for distkv-cli.
type CLIConfig struct {
	// Addr is the server's TCP address.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`

	// Socket is the server's Unix socket. When set it takes precedence
	// over Addr.
	Socket string `koanf:"socket" json:"socket" yaml:"socket"`

	// HTTP is the server's metrics/health address, used by "status".
	HTTP string `koanf:"http" json:"http" yaml:"http"`

	// Output is the default output format: text, json or yaml.
	Output string `koanf:"output" json:"output" yaml:"output"`

	// Timeout bounds dialing and each request.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`

	// History is the shell history file. "-" disables persistence.
	History string `koanf:"history" json:"history" yaml:"history"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Addr:    "127.0.0.1:4000",
		HTTP:    "127.0.0.1:9090",
		Output:  "text",
		Timeout: 10 * time.Second,
	}
}
