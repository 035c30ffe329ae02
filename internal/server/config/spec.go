package config

import "time"

// ServerConfig is the root configuration for distkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	TCP   TCPConfig   `koanf:"tcp"`
	Local LocalConfig `koanf:"local"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// TCPConfig configures the line protocol listener.
type TCPConfig struct {
	// Addr is the host:port to bind.
	Addr string `koanf:"addr"`

	// ReadTimeout bounds reading one line after its first byte.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing one response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout closes silent connections. 0 disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// MaxLineBytes limits a request line.
	MaxLineBytes int `koanf:"max_line_bytes"`

	// RateLimit is the number of commands per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`
}

// LocalConfig configures the local administration socket.
type LocalConfig struct {
	// Path of the Unix socket. Empty disables it.
	Path string `koanf:"path"`
}

// HTTPConfig configures the metrics and health endpoint.
type HTTPConfig struct {
	// Addr is the host:port to bind. Empty disables it.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
