package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/distkv-go/internal/infra/buildinfo"
)

// Health is the /healthz document.
type Health struct {
	Status  string       `json:"status" yaml:"status"`
	Time    string       `json:"time" yaml:"time"`
	Version string       `json:"version,omitempty" yaml:"version,omitempty"`
	Store   *StoreStatus `json:"store,omitempty" yaml:"store,omitempty"`
}

// StoreStatus is the store summary inside Health.
type StoreStatus struct {
	Keys        int `json:"keys" yaml:"keys"`
	Connections int `json:"connections" yaml:"connections"`
}

// HTTPClient queries the server's HTTP endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client.
func NewHTTPClient(server string, timeout time.Duration) *HTTPClient {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Health fetches /healthz.
func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "distkv-cli/"+buildinfo.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if code := resp.Header.Get("X-Error-Code"); code != "" {
			return nil, fmt.Errorf("[%s] request failed with status %d", code, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &h, nil
}
