package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/distkv-go/internal/cli/repl"
	"github.com/yndnr/distkv-go/internal/core/service"
	"github.com/yndnr/distkv-go/internal/infra/buildinfo"
	"github.com/yndnr/distkv-go/internal/infra/confloader"
	"github.com/yndnr/distkv-go/internal/infra/shutdown"
	"github.com/yndnr/distkv-go/internal/server/config"
	"github.com/yndnr/distkv-go/internal/server/httpserver"
	"github.com/yndnr/distkv-go/internal/server/lineserver"
	"github.com/yndnr/distkv-go/internal/server/localserver"
	"github.com/yndnr/distkv-go/internal/storage/memory"
	"github.com/yndnr/distkv-go/internal/telemetry/logger"
	"github.com/yndnr/distkv-go/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configFile  string
	showVersion bool
	shell       bool
	addr        string
	socket      string
	httpAddr    string
	logLevel    string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("distkv-server %s\n", buildinfo.String())
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("distkv-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.shell, "shell", false, "Run an interactive shell against the store")
	fs.StringVar(&opts.addr, "addr", "", "TCP listen address (overrides server.tcp.addr)")
	fs.StringVar(&opts.socket, "socket", "", "Unix socket path (overrides server.local.path)")
	fs.StringVar(&opts.httpAddr, "http", "", "Metrics/health listen address (overrides server.http.addr)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (overrides log.level)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// overrides returns the flag values that were given, keyed by config path.
func (o *options) overrides() map[string]any {
	m := make(map[string]any)
	if o.addr != "" {
		m["server.tcp.addr"] = o.addr
	}
	if o.socket != "" {
		m["server.local.path"] = o.socket
	}
	if o.httpAddr != "" {
		m["server.http.addr"] = o.httpAddr
	}
	if o.logLevel != "" {
		m["log.level"] = o.logLevel
	}
	return m
}

func run(opts *options) error {
	loader := confloader.NewLoader(confloader.WithConfigFile(opts.configFile))
	cfg, err := loadConfig(loader, opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	slogLogger := logger.Slog(log)

	info := buildinfo.Get()
	log.Info("starting distkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.configFile)

	store := memory.New()
	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(store))
	exec := service.NewExecutor(store, service.WithRecorder(metrics))

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, slogLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdownHandler.OnShutdown("context", func(context.Context) error {
		cancel()
		return nil
	})

	// abort unwinds whatever has been started so far.
	abort := func(err error) error {
		shutdownHandler.Trigger("startup failed")
		_ = shutdownHandler.Wait()
		return err
	}

	lineSrv := lineserver.New(config.ToLineConfig(cfg), exec,
		lineserver.WithLogger(slogLogger),
		lineserver.WithMetrics(metrics))
	if err := lineSrv.Start(ctx); err != nil {
		return err
	}
	shutdownHandler.OnShutdown("tcp", lineSrv.Shutdown)

	activeConns := lineSrv.ActiveConns
	if path := cfg.Server.Local.Path; path != "" {
		localSrv := localserver.New(path, config.ToLineConfig(cfg), exec, slogLogger, metrics)
		if err := localSrv.Start(ctx); err != nil {
			return abort(fmt.Errorf("local server: %w", err))
		}
		shutdownHandler.OnShutdown("local", localSrv.Shutdown)
		activeConns = func() int { return lineSrv.ActiveConns() + localSrv.ActiveConns() }
	}

	if addr := cfg.Server.HTTP.Addr; addr != "" {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics.Handler(),
			Status: func() httpserver.Status {
				return httpserver.Status{Keys: store.Len(), Connections: activeConns()}
			},
			Version: info.Version,
			Logger:  slogLogger,
		})
		httpSrv := httpserver.New(addr, router, slogLogger)
		if err := httpSrv.Start(); err != nil {
			return abort(fmt.Errorf("http server: %w", err))
		}
		shutdownHandler.OnShutdown("http", httpSrv.Shutdown)
	}

	if opts.configFile != "" {
		if w, err := watchConfig(loader, opts, slogLogger); err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	if opts.shell {
		go func() {
			shell := repl.New(repl.NewLocal(exec), repl.WithHistory(repl.NewFileHistory("")))
			if err := shell.Run(ctx); err != nil {
				log.Error("shell error", "error", err)
			}
			shutdownHandler.Trigger("shell exited")
		}()
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig reads file and environment, applies flag overrides and
// verifies the result.
func loadConfig(loader *confloader.Loader, opts *options) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if o := opts.overrides(); len(o) > 0 {
		if err := loader.LoadMap(o); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// reloadConfig re-reads the configuration and applies what can change at
// runtime. Listener settings need a restart.
func reloadConfig(loader *confloader.Loader, opts *options, log *slog.Logger) {
	cfg := config.Default()
	if err := loader.Reload(cfg); err != nil {
		log.Error("config reload failed", "error", err)
		return
	}
	if o := opts.overrides(); len(o) > 0 {
		if err := loader.LoadMap(o); err != nil {
			log.Error("config reload failed", "error", err)
			return
		}
		if err := loader.Unmarshal(cfg); err != nil {
			log.Error("config reload failed", "error", err)
			return
		}
	}
	if err := config.Verify(cfg); err != nil {
		log.Error("reloaded config rejected", "error", err)
		return
	}

	logger.SetLevel(cfg.Log.Level)
	log.Info("config reloaded", "log_level", logger.GetLevel())
}

func watchConfig(loader *confloader.Loader, opts *options, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(opts.configFile); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		reloadConfig(loader, opts, log)
	})
	w.StartAsync()
	return w, nil
}
