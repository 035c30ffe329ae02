package connection

import (
	"errors"
	"net"
	"strings"
)

// DefaultAddr is the server's default TCP address as seen from a client.
const DefaultAddr = "127.0.0.1:4000"

// Endpoint is a dialable server address.
type Endpoint struct {
	Network string
	Address string
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	if e.Network == "unix" {
		return "unix://" + e.Address
	}
	return e.Address
}

// ResolveEndpoint picks the Unix socket when socketPath is set, the TCP
// address otherwise. addr may carry a "tcp://" or "unix://" scheme.
func ResolveEndpoint(addr, socketPath string) (Endpoint, error) {
	if socketPath != "" {
		return Endpoint{Network: "unix", Address: socketPath}, nil
	}
	if path, ok := strings.CutPrefix(addr, "unix://"); ok {
		if path == "" {
			return Endpoint{}, errors.New("empty unix socket path")
		}
		return Endpoint{Network: "unix", Address: path}, nil
	}

	addr = strings.TrimPrefix(addr, "tcp://")
	if addr == "" {
		addr = DefaultAddr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Network: "tcp", Address: addr}, nil
}
