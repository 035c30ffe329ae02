package tests

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/distkv-go/internal/cli/connection"
	"github.com/yndnr/distkv-go/internal/core/service"
	"github.com/yndnr/distkv-go/internal/server/httpserver"
	"github.com/yndnr/distkv-go/internal/server/lineserver"
	"github.com/yndnr/distkv-go/internal/server/localserver"
	"github.com/yndnr/distkv-go/internal/storage/memory"
	"github.com/yndnr/distkv-go/internal/telemetry/metric"
)

type stack struct {
	tcp    *lineserver.Server
	local  *localserver.Server
	http   *httpserver.Server
	socket string
}

// startStack wires the servers the way distkv-server does.
func startStack(t *testing.T) *stack {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(store))
	exec := service.NewExecutor(store, service.WithRecorder(metrics))
	ctx := context.Background()

	cfg := lineserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	tcp := lineserver.New(cfg, exec, lineserver.WithLogger(log), lineserver.WithMetrics(metrics))
	if err := tcp.Start(ctx); err != nil {
		t.Fatalf("tcp Start() error = %v", err)
	}

	dir, err := os.MkdirTemp("", "dkv")
	if err != nil {
		t.Fatal(err)
	}
	socket := filepath.Join(dir, "s.sock")
	local := localserver.New(socket, cfg, exec, log, metrics)
	if err := local.Start(ctx); err != nil {
		t.Fatalf("local Start() error = %v", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics: metrics.Handler(),
		Status: func() httpserver.Status {
			return httpserver.Status{Keys: store.Len(), Connections: tcp.ActiveConns() + local.ActiveConns()}
		},
		Version: "test",
		Logger:  log,
	})
	hs := httpserver.New("127.0.0.1:0", router, log)
	if err := hs.Start(); err != nil {
		t.Fatalf("http Start() error = %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = hs.Shutdown(ctx)
		_ = local.Shutdown(ctx)
		_ = tcp.Shutdown(ctx)
		os.RemoveAll(dir)
	})

	return &stack{tcp: tcp, local: local, http: hs, socket: socket}
}

func (s *stack) tcpClient(t *testing.T) *connection.Client {
	c := connection.NewClient(connection.Endpoint{Network: "tcp", Address: s.tcp.Addr().String()}, time.Second)
	t.Cleanup(func() { c.Close() })
	return c
}

func (s *stack) unixClient(t *testing.T) *connection.Client {
	c := connection.NewClient(connection.Endpoint{Network: "unix", Address: s.socket}, time.Second)
	t.Cleanup(func() { c.Close() })
	return c
}

func mustExec(t *testing.T, c *connection.Client, line, want string) {
	t.Helper()
	got, err := c.Execute(context.Background(), line)
	if err != nil {
		t.Fatalf("Execute(%q) error = %v", line, err)
	}
	if got != want {
		t.Fatalf("Execute(%q) = %q, want %q", line, got, want)
	}
}

func TestStack_SharedStoreAcrossListeners(t *testing.T) {
	s := startStack(t)
	tcp := s.tcpClient(t)
	unix := s.unixClient(t)

	mustExec(t, tcp, "SET shared from tcp", "OK key set")
	mustExec(t, unix, "GET shared", "shared = from tcp")
	mustExec(t, unix, "UPDATE shared from unix", "OK key updated, old value: from tcp")
	mustExec(t, tcp, "GET shared", "shared = from unix")
	mustExec(t, unix, "CLEAR", "OK store cleared")
	mustExec(t, tcp, "LIST", "EMPTY no keys stored")
}

func TestStack_HealthAndMetrics(t *testing.T) {
	s := startStack(t)
	c := s.tcpClient(t)

	mustExec(t, c, "SET a 1", "OK key set")
	mustExec(t, c, "SET b 2", "OK key set")
	mustExec(t, c, "GET missing", "NOT_FOUND key 'missing' not found")
	admin := s.unixClient(t)
	mustExec(t, admin, "LIST", "KEYS a, b")

	hc := connection.NewHTTPClient(s.http.Addr().String(), time.Second)
	h, err := hc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Store == nil || h.Store.Keys != 2 || h.Store.Connections != 2 {
		t.Errorf("health store = %+v", h.Store)
	}

	resp, err := http.Get(hc.BaseURL() + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"distkv_keys 2",
		`distkv_commands_total{outcome="ok",verb="SET"} 2`,
		`distkv_commands_total{outcome="not_found",verb="GET"} 1`,
		"distkv_connections_active 2",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

// Writers on both listeners race on one key while an observer reads it;
// every observed value must be one a writer actually sent.
func TestStack_ConcurrentWritersAcrossListeners(t *testing.T) {
	s := startStack(t)

	const writers, rounds = 6, 40
	valid := make(map[string]bool)
	for w := 0; w < writers; w++ {
		valid[fmt.Sprintf("k = writer-%d", w)] = true
	}

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		c := s.tcpClient(t)
		if w%2 == 1 {
			c = s.unixClient(t)
		}
		wg.Add(1)
		go func(w int, c *connection.Client) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := c.Execute(context.Background(), fmt.Sprintf("SET k writer-%d", w)); err != nil {
					t.Errorf("writer %d: %v", w, err)
					return
				}
			}
		}(w, c)
	}

	observer := s.tcpClient(t)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		got, err := observer.Execute(context.Background(), "GET k")
		if err != nil {
			t.Fatalf("observer: %v", err)
		}
		if got != "NOT_FOUND key 'k' not found" && !valid[got] {
			t.Fatalf("observer saw %q", got)
		}
	}
}
