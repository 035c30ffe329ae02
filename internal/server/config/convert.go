package config

import "github.com/yndnr/distkv-go/internal/server/lineserver"

// ToLineConfig converts the TCP section to a lineserver.Config.
func ToLineConfig(cfg *ServerConfig) *lineserver.Config {
	tcp := cfg.Server.TCP
	return &lineserver.Config{
		Addr:         tcp.Addr,
		ReadTimeout:  tcp.ReadTimeout,
		WriteTimeout: tcp.WriteTimeout,
		IdleTimeout:  tcp.IdleTimeout,
		MaxLineBytes: tcp.MaxLineBytes,
		RateLimit:    tcp.RateLimit,
	}
}
