package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/distkv-go/internal/protocol"
)

// ErrClosedByServer is returned when the server hangs up, e.g. after EXIT
// or a line-too-long error.
var ErrClosedByServer = errors.New("connection closed by server")

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 10 * time.Second

// Client speaks the line protocol to one server. It is safe for concurrent
// use; requests are serialized on the single connection.
type Client struct {
	endpoint Endpoint
	timeout  time.Duration

	mu   sync.Mutex
	conn net.Conn
	br   *bufio.Reader
}

// NewClient creates a client. The connection is opened lazily.
func NewClient(endpoint Endpoint, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{endpoint: endpoint, timeout: timeout}
}

// Endpoint returns the server endpoint.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Connect dials the server if not already connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, c.endpoint.Network, c.endpoint.Address)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.endpoint, err)
	}
	c.conn = conn
	c.br = bufio.NewReader(conn)
	return nil
}

// Close closes the connection. It is a no-op when not connected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.br = nil, nil
	return err
}

// Execute sends one request line and returns the response line without its
// newline. A blank line is not sent, since the server does not answer it.
func (c *Client) Execute(ctx context.Context, line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", nil
	}
	if strings.ContainsAny(line, "\r\n") {
		return "", errors.New("request must be a single line")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.closeLocked()
		return "", err
	}

	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.closeLocked()
		return "", fmt.Errorf("send: %w", err)
	}

	resp, err := c.br.ReadString('\n')
	if err != nil {
		c.closeLocked()
		if resp == "" && isClosed(err) {
			return "", ErrClosedByServer
		}
		return "", fmt.Errorf("receive: %w", err)
	}
	resp = strings.TrimRight(resp, "\r\n")

	// BYE and a line-too-long error are followed by a server-side close.
	if reply := protocol.ParseReply(resp); reply.Status == protocol.StatusBye ||
		(reply.Status == protocol.StatusErr && reply.Text == "line too long") {
		c.closeLocked()
	}
	return resp, nil
}

// Exec implements the shell's Executor interface.
func (c *Client) Exec(ctx context.Context, line string) (string, error) {
	return c.Execute(ctx, line)
}

// Do sends one request line and parses the response.
func (c *Client) Do(ctx context.Context, line string) (protocol.Reply, error) {
	resp, err := c.Execute(ctx, line)
	if err != nil {
		return protocol.Reply{}, err
	}
	return protocol.ParseReply(resp), nil
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
