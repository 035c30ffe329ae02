package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.TCP.Addr == "" {
		return errors.New("server.tcp.addr is required")
	}
	if err := verifyAddr("server.tcp.addr", cfg.TCP.Addr); err != nil {
		return err
	}
	if cfg.HTTP.Addr != "" {
		if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
			return err
		}
		if cfg.HTTP.Addr == cfg.TCP.Addr {
			return fmt.Errorf("server.http.addr %q conflicts with server.tcp.addr", cfg.HTTP.Addr)
		}
	}

	switch {
	case cfg.TCP.ReadTimeout < 0:
		return errors.New("server.tcp.read_timeout must not be negative")
	case cfg.TCP.WriteTimeout < 0:
		return errors.New("server.tcp.write_timeout must not be negative")
	case cfg.TCP.IdleTimeout < 0:
		return errors.New("server.tcp.idle_timeout must not be negative")
	case cfg.TCP.MaxLineBytes < 0:
		return errors.New("server.tcp.max_line_bytes must not be negative")
	case cfg.TCP.RateLimit < 0:
		return errors.New("server.tcp.rate_limit must not be negative")
	}
	return nil
}

// verifyAddr checks host:port syntax. An empty host means all interfaces.
func verifyAddr(field, addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s %q: %w", field, addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("%s %q: invalid port %q", field, addr, port)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
