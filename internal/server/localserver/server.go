package localserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/yndnr/distkv-go/internal/server/lineserver"
)

// Server represents the local administration server.
type Server struct {
	path   string
	line   *lineserver.Server
	logger *slog.Logger
}

// New creates a new local server on socketPath. Timeouts and the line limit
// are taken from cfg; its address and rate limit are ignored.
func New(socketPath string, cfg *lineserver.Config, exec lineserver.Executor, logger *slog.Logger, metrics lineserver.Metrics) *Server {
	local := lineserver.DefaultConfig()
	if cfg != nil {
		c := *cfg
		local = &c
	}
	local.Addr = socketPath
	local.RateLimit = 0

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("listener", "local")

	return &Server{
		path:   socketPath,
		logger: logger,
		line:   lineserver.New(local, exec, lineserver.WithLogger(logger), lineserver.WithMetrics(metrics)),
	}
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// ActiveConns returns the number of open connections on the socket.
func (s *Server) ActiveConns() int {
	return s.line.ActiveConns()
}

// Start binds the socket and serves it in the background.
//
// A stale socket file left by a previous process is removed first. Any
// other existing file at the path is an error.
func (s *Server) Start(ctx context.Context) error {
	if err := removeStaleSocket(s.path); err != nil {
		return err
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("localserver: listen %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("localserver: chmod %s: %w", s.path, err)
	}
	s.logger.Info("local server listening", "path", s.path)

	go func() {
		if err := s.line.Serve(ctx, ln); err != nil && !errors.Is(err, lineserver.ErrServerClosed) {
			s.logger.Error("local server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server and removes the socket file.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.line.Shutdown(ctx)
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}

func removeStaleSocket(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("localserver: stat %s: %w", path, err)
	}
	if fi.Mode()&fs.ModeSocket == 0 {
		return fmt.Errorf("localserver: %s exists and is not a socket", path)
	}

	// A socket that still answers belongs to a live process.
	if c, err := net.DialTimeout("unix", path, 100*time.Millisecond); err == nil {
		_ = c.Close()
		return fmt.Errorf("localserver: %s is in use", path)
	}
	return os.Remove(path)
}
