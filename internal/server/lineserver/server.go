package lineserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/distkv-go/internal/core/domain"
	"github.com/yndnr/distkv-go/internal/protocol"
	"github.com/yndnr/distkv-go/pkg/cmap"
)

var (
	// ErrServerClosed is returned by Serve after Shutdown.
	ErrServerClosed = errors.New("lineserver: server closed")

	// ErrLineTooLong reports a request line over Config.MaxLineBytes.
	ErrLineTooLong = protocol.ErrLimitExceeded
)

// Config holds the line server configuration.
type Config struct {
	// Addr is the TCP address to bind, host:port.
	Addr string
	// ReadTimeout bounds reading the rest of a line once its first byte
	// has arrived. Zero disables it.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing one response. Zero disables it.
	WriteTimeout time.Duration
	// IdleTimeout closes connections that send nothing for this long.
	// Zero keeps idle connections open until the peer leaves.
	IdleTimeout time.Duration
	// MaxLineBytes limits a request line, terminator excluded.
	MaxLineBytes int
	// RateLimit is the maximum number of commands per second per client IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "0.0.0.0:4000",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  0,
		MaxLineBytes: protocol.DefaultMaxLineBytes,
		RateLimit:    0,
	}
}

// Executor applies one decoded command.
type Executor interface {
	Execute(ctx context.Context, cmd domain.Command) domain.Response
}

// Metrics receives connection lifecycle events. *metric.Registry satisfies it.
type Metrics interface {
	ConnOpened()
	ConnClosed()
	ConnError(stage string)
}

type nopMetrics struct{}

func (nopMetrics) ConnOpened()      {}
func (nopMetrics) ConnClosed()      {}
func (nopMetrics) ConnError(string) {}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics reports connection events to m.
func WithMetrics(m Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Server accepts connections and runs the line protocol on each.
type Server struct {
	cfg      *Config
	exec     Executor
	logger   *slog.Logger
	metrics  Metrics
	limiter  *rateLimiter
	conns    *cmap.Map[*Conn]
	closing  atomic.Bool
	mu       sync.Mutex
	listener []net.Listener
	sweeping bool
	wg       sync.WaitGroup
}

// New creates a new line server.
func New(cfg *Config, exec Executor, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = protocol.DefaultMaxLineBytes
	}

	s := &Server{
		cfg:     cfg,
		exec:    exec,
		logger:  slog.Default(),
		metrics: nopMetrics{},
		conns:   cmap.New[*Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit)
	}
	return s
}

// Start binds Config.Addr and serves it in the background.
//
// A bind failure is returned to the caller; nothing is left running.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("lineserver: listen %s: %w", s.cfg.Addr, err)
	}
	if !s.track(ln) {
		_ = ln.Close()
		return ErrServerClosed
	}
	s.logger.Info("line server listening", "address", ln.Addr().String())

	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx, ln)
	}()
	return nil
}

// Addr returns the address of the first listener, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listener) == 0 {
		return nil
	}
	return s.listener[0].Addr()
}

// Serve accepts connections on ln until Shutdown is called or ln is closed.
//
// Errors accepting a single connection are logged and accepting continues.
// Serve always returns a non-nil error; after Shutdown it is ErrServerClosed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.track(ln) {
		_ = ln.Close()
		return ErrServerClosed
	}
	defer s.wg.Done()
	return s.acceptLoop(ctx, ln)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	var backoff time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			s.metrics.ConnError("accept")

			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			s.logger.Warn("accept failed", "error", err, "retry_in", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrServerClosed
			}
			continue
		}
		backoff = 0

		c := newConn(nc)
		s.conns.Set(c.id, c)
		s.metrics.ConnOpened()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.metrics.ConnClosed()
			defer s.conns.Delete(c.id)
			s.serveConn(ctx, c)
		}()

		// Shutdown may have swept the registry between Accept and Set.
		if s.closing.Load() {
			_ = c.Close()
		}
	}
}

// track registers ln and counts its accept loop in wg.
func (s *Server) track(ln net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	s.listener = append(s.listener, ln)
	s.wg.Add(1)
	if s.limiter != nil && !s.sweeping {
		s.sweeping = true
		go s.limiter.run(sweepInterval)
	}
	return true
}

// ActiveConns returns the number of open connections.
func (s *Server) ActiveConns() int {
	return s.conns.Count()
}

// Shutdown stops accepting, closes live connections and waits for every
// handler to return or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing.Store(true)
	listeners := s.listener
	s.mu.Unlock()

	var firstErr error
	for _, ln := range listeners {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}

	s.limiter.stop()

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if firstErr == nil {
		s.logger.Info("line server stopped")
	}
	return firstErr
}
