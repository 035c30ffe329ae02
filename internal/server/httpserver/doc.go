// Package httpserver provides the operational HTTP endpoints for DistKV.
//
// It uses the Go standard library net/http and serves:
//
//   - GET /metrics: Prometheus exposition of the metric registry
//   - GET /healthz: liveness plus a small status summary as JSON
//
// The key-value protocol itself is never exposed over HTTP.
package httpserver
