package config

import "time"

// Default configuration values.
const (
	DefaultTCPAddr      = "0.0.0.0:4000"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = time.Duration(0)
	DefaultMaxLineBytes = 64 * 1024
	DefaultRateLimit    = 0

	DefaultLocalSocket = ""
	DefaultHTTPAddr    = ""

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			TCP: TCPConfig{
				Addr:         DefaultTCPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxLineBytes: DefaultMaxLineBytes,
				RateLimit:    DefaultRateLimit,
			},
			Local: LocalConfig{
				Path: DefaultLocalSocket,
			},
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
