package lineserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/distkv-go/internal/core/service"
	"github.com/yndnr/distkv-go/internal/storage/memory"
	"github.com/yndnr/distkv-go/internal/telemetry/metric"
)

func testConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxLineBytes: 1024,
	}
}

func startTestServer(t *testing.T, cfg *Config, opts ...Option) *Server {
	t.Helper()

	srv := New(cfg, service.NewExecutor(memory.New()), opts...)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	br   *bufio.Reader
}

func dial(t *testing.T, srv *Server) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, br: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		c.t.Fatalf("write %q error = %v", line, err)
	}
}

func (c *testClient) recv() string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.br.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read error = %v", err)
	}
	return strings.TrimSuffix(line, "\n")
}

func (c *testClient) do(line string) string {
	c.t.Helper()
	c.send(line)
	return c.recv()
}

// expectClosed asserts the server has closed the connection.
func (c *testClient) expectClosed() {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if line, err := c.br.ReadString('\n'); err != io.EOF {
		c.t.Errorf("expected EOF, got (%q, %v)", line, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != "0.0.0.0:4000" {
		t.Errorf("Addr = %q, want 0.0.0.0:4000", cfg.Addr)
	}
	if cfg.ReadTimeout != 30*time.Second || cfg.WriteTimeout != 30*time.Second {
		t.Errorf("timeouts = %v/%v, want 30s/30s", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if cfg.IdleTimeout != 0 {
		t.Errorf("IdleTimeout = %v, want 0", cfg.IdleTimeout)
	}
	if cfg.MaxLineBytes != 64*1024 {
		t.Errorf("MaxLineBytes = %d, want 65536", cfg.MaxLineBytes)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %d, want 0", cfg.RateLimit)
	}
}

func TestServer_CommandScenario(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	steps := []struct {
		req  string
		want string
	}{
		{"SET name alice", "OK key set"},
		{"GET name", "name = alice"},
		{"GET name", "name = alice"},
		{"SET name bob", "OK key set"},
		{"GET name", "name = bob"},
		{"UPDATE ghost x", "NOT_FOUND key 'ghost' not found for update"},
		{"GET ghost", "NOT_FOUND key 'ghost' not found"},
		{"UPDATE name carol", "OK key updated, old value: bob"},
		{"SET greeting hello   big world", "OK key set"},
		{"GET greeting", "greeting = hello   big world"},
		{"LIST", "KEYS greeting, name"},
		{"DELETE name", "OK key deleted"},
		{"DELETE name", "NOT_FOUND key 'name' not found"},
		{"CLEAR", "OK store cleared"},
		{"LIST", "EMPTY no keys stored"},
		{"HELP", "HELP SET <key> <value> | GET <key> | DELETE <key> | UPDATE <key> <value> | LIST | CLEAR | HELP | EXIT"},
	}

	for _, st := range steps {
		if got := c.do(st.req); got != st.want {
			t.Errorf("%q -> %q, want %q", st.req, got, st.want)
		}
	}
}

func TestServer_CaseInsensitiveVerbs(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	if got := c.do("set Key Value"); got != "OK key set" {
		t.Errorf("set -> %q", got)
	}
	if got := c.do("gEt Key"); got != "Key = Value" {
		t.Errorf("gEt -> %q", got)
	}
	if got := c.do("get key"); got != "NOT_FOUND key 'key' not found" {
		t.Errorf("keys must be case-sensitive, got %q", got)
	}
}

func TestServer_BlankLineProducesNoResponse(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	c.send("")
	c.send("   ")
	if got := c.do("GET missing"); got != "NOT_FOUND key 'missing' not found" {
		t.Errorf("first response after blank lines = %q", got)
	}
}

func TestServer_CRLFClients(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	if _, err := io.WriteString(c.conn, "SET k v\r\nGET k\r\n"); err != nil {
		t.Fatal(err)
	}
	if got := c.recv(); got != "OK key set" {
		t.Errorf("SET -> %q", got)
	}
	if got := c.recv(); got != "k = v" {
		t.Errorf("GET -> %q, want value without carriage return", got)
	}
}

func TestServer_MalformedInputResilience(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	bad := []struct {
		req  string
		want string
	}{
		{"FROB x", "ERR unknown command 'FROB', type HELP for available commands"},
		{"SET onlykey", "ERR usage: SET <key> <value>"},
		{"SET", "ERR usage: SET <key> <value>"},
		{"GET", "ERR usage: GET <key>"},
		{"GET a b", "ERR usage: GET <key>"},
		{"DELETE", "ERR usage: DELETE <key>"},
		{"UPDATE k", "ERR usage: UPDATE <key> <value>"},
	}
	for _, b := range bad {
		if got := c.do(b.req); got != b.want {
			t.Errorf("%q -> %q, want %q", b.req, got, b.want)
		}
	}

	// The connection stays usable.
	if got := c.do("SET k v"); got != "OK key set" {
		t.Errorf("SET after errors -> %q", got)
	}
	if got := c.do("GET k"); got != "k = v" {
		t.Errorf("GET after errors -> %q", got)
	}
}

func TestServer_ExitClosesConnection(t *testing.T) {
	srv := startTestServer(t, testConfig())
	c := dial(t, srv)

	if got := c.do("exit"); got != "BYE" {
		t.Errorf("EXIT -> %q, want BYE", got)
	}
	c.expectClosed()
}

func TestServer_LineTooLong(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLineBytes = 16
	srv := startTestServer(t, cfg)
	c := dial(t, srv)

	if got := c.do("SET k " + strings.Repeat("x", 100)); got != "ERR line too long" {
		t.Errorf("long line -> %q, want ERR line too long", got)
	}
	c.expectClosed()

	// Other clients are unaffected.
	other := dial(t, srv)
	if got := other.do("SET k short"); got != "OK key set" {
		t.Errorf("SET on new connection -> %q", got)
	}
}

func TestServer_ConnectionIsolation(t *testing.T) {
	srv := startTestServer(t, testConfig())

	a := dial(t, srv)
	b := dial(t, srv)

	if got := a.do("SET shared from-a"); got != "OK key set" {
		t.Fatalf("SET -> %q", got)
	}

	// a disconnects abruptly in the middle of a line.
	if _, err := io.WriteString(a.conn, "SET half"); err != nil {
		t.Fatal(err)
	}
	a.conn.Close()

	if got := b.do("GET shared"); got != "shared = from-a" {
		t.Errorf("GET on surviving connection -> %q", got)
	}
	if got := b.do("SET other 1"); got != "OK key set" {
		t.Errorf("SET on surviving connection -> %q", got)
	}
}

func TestServer_ConcurrentLinearizability(t *testing.T) {
	srv := startTestServer(t, testConfig())

	const writers = 8
	const rounds = 50

	written := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		written[fmt.Sprintf("k = conn-%d payload with spaces", i)] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		c := dial(t, srv)
		wg.Add(1)
		go func(i int, c *testClient) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				if _, err := fmt.Fprintf(c.conn, "SET k conn-%d payload with spaces\n", i); err != nil {
					t.Errorf("writer %d: %v", i, err)
					return
				}
				_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				if line, err := c.br.ReadString('\n'); err != nil || line != "OK key set\n" {
					t.Errorf("writer %d: (%q, %v)", i, line, err)
					return
				}
			}
		}(i, c)
	}

	observer := dial(t, srv)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-done:
			got := observer.do("GET k")
			if !written[got] {
				t.Errorf("final GET returned unwritten value %q", got)
			}
			return
		default:
		}
		got := observer.do("GET k")
		if got != "NOT_FOUND key 'k' not found" && !written[got] {
			t.Fatalf("observer saw torn or unknown value %q", got)
		}
	}
}

func TestServer_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	cfg := testConfig()
	cfg.Addr = ln.Addr().String()
	srv := New(cfg, service.NewExecutor(memory.New()))

	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("Start() on a taken address should fail")
	}
	if srv.Addr() != nil {
		t.Error("Addr() should be nil after a failed Start")
	}
}

func TestServer_ShutdownClosesConnections(t *testing.T) {
	srv := New(testConfig(), service.NewExecutor(memory.New()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	c := dial(t, srv)
	if got := c.do("SET k v"); got != "OK key set" {
		t.Fatalf("SET -> %q", got)
	}
	if n := srv.ActiveConns(); n != 1 {
		t.Errorf("ActiveConns() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	c.expectClosed()
	if n := srv.ActiveConns(); n != 0 {
		t.Errorf("ActiveConns() after Shutdown = %d, want 0", n)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Serve(context.Background(), ln); !errors.Is(err, ErrServerClosed) {
		t.Errorf("Serve() after Shutdown = %v, want ErrServerClosed", err)
	}
}

func TestServer_IdleTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTimeout = 50 * time.Millisecond
	srv := startTestServer(t, cfg)
	c := dial(t, srv)

	if got := c.do("SET k v"); got != "OK key set" {
		t.Fatalf("SET -> %q", got)
	}
	c.expectClosed()
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 1
	srv := startTestServer(t, cfg)
	c := dial(t, srv)

	if got := c.do("SET k v"); got != "OK key set" {
		t.Fatalf("first command -> %q", got)
	}
	if got := c.do("GET k"); got != "ERR too many commands" {
		t.Errorf("second command -> %q, want rate limit error", got)
	}
}

func TestServer_RateLimitIgnoresBlankLines(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 2
	srv := startTestServer(t, cfg)
	c := dial(t, srv)

	c.send("")
	c.send("   ")
	c.send("")
	if got := c.do("GET x"); got != "NOT_FOUND key 'x' not found" {
		t.Errorf("GET after blank lines -> %q, want NOT_FOUND", got)
	}
	if got := c.do("SET x 1"); got != "OK key set" {
		t.Errorf("second command -> %q, want it within the burst", got)
	}
	if got := c.do("GET x"); got != "ERR too many commands" {
		t.Errorf("third command -> %q, want rate limit error", got)
	}
}

func TestServer_ShutdownDropsRateLimitBuckets(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 5
	srv := startTestServer(t, cfg)
	c := dial(t, srv)

	if got := c.do("SET k v"); got != "OK key set" {
		t.Fatalf("SET -> %q", got)
	}
	if n := srv.limiter.size(); n != 1 {
		t.Fatalf("buckets = %d, want 1", n)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if n := srv.limiter.size(); n != 0 {
		t.Errorf("buckets after Shutdown = %d, want 0", n)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_CommandLogsCarryConnection(t *testing.T) {
	var out lockedBuffer
	log := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := startTestServer(t, testConfig(), WithLogger(log.With("listener", "tcp")))
	c := dial(t, srv)

	if got := c.do("FROB x"); !strings.HasPrefix(got, "ERR unknown command") {
		t.Fatalf("FROB -> %q", got)
	}

	logs := out.String()
	for _, want := range []string{"rejected command", "listener=tcp", "conn_id=", "target=FROB"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	exec := service.NewExecutor(memory.New(), service.WithRecorder(reg))
	srv := New(testConfig(), exec, WithMetrics(reg))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer srv.Shutdown(context.Background())

	c := dial(t, srv)
	c.do("SET k v")
	c.do("GET nope")
	if got := c.do("EXIT"); got != "BYE" {
		t.Fatalf("EXIT -> %q", got)
	}
	c.expectClosed()

	if got := testutil.ToFloat64(reg.ConnectionsTotal); got != 1 {
		t.Errorf("connections_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("SET", "ok")); got != 1 {
		t.Errorf("commands_total{SET,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.CommandsTotal.WithLabelValues("GET", "not_found")); got != 1 {
		t.Errorf("commands_total{GET,not_found} = %v, want 1", got)
	}

	// The handler decrements the gauge after the socket is closed.
	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(reg.ConnectionsActive) != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(reg.ConnectionsActive); got != 0 {
		t.Errorf("connections_active = %v, want 0", got)
	}
}

func TestServer_ServeConn_Pipe(t *testing.T) {
	srv := New(testConfig(), service.NewExecutor(memory.New()))

	server, client := net.Pipe()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		srv.serveConn(context.Background(), newConn(server))
		close(done)
	}()

	br := bufio.NewReader(client)
	for _, st := range []struct{ req, want string }{
		{"SET a 1\n", "OK key set\n"},
		{"\n", ""},
		{"GET a\n", "a = 1\n"},
		{"EXIT\n", "BYE\n"},
	} {
		if _, err := io.WriteString(client, st.req); err != nil {
			t.Fatalf("write %q: %v", st.req, err)
		}
		if st.want == "" {
			continue
		}
		_ = client.SetReadDeadline(time.Now().Add(time.Second))
		got, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read after %q: %v", st.req, err)
		}
		if got != st.want {
			t.Errorf("%q -> %q, want %q", st.req, got, st.want)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("serveConn did not return after EXIT")
	}
}
