package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Status is the summary reported by /healthz.
type Status struct {
	Keys        int `json:"keys"`
	Connections int `json:"connections"`
}

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Status reports the summary for /healthz. Nil reports only liveness.
	Status func() Status

	// Version is echoed by /healthz.
	Version string

	// Logger for request logging.
	Logger *slog.Logger

	// EnableAccessLog logs every request at Info.
	EnableAccessLog bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:          slog.Default(),
		EnableAccessLog: false,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultRouterConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	middlewares := []Middleware{RequestID(), Recover(logger)}
	if cfg.EnableAccessLog {
		middlewares = append(middlewares, AccessLog(logger))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", Chain(healthHandler(cfg), middlewares...))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics, middlewares...))
	}
	return mux
}

type healthResponse struct {
	Status  string  `json:"status"`
	Time    string  `json:"time"`
	Version string  `json:"version,omitempty"`
	Store   *Status `json:"store,omitempty"`
}

func healthHandler(cfg *RouterConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:  "healthy",
			Time:    time.Now().UTC().Format(time.RFC3339),
			Version: cfg.Version,
		}
		if cfg.Status != nil {
			st := cfg.Status()
			resp.Store = &st
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	})
}
