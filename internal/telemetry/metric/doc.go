// Package metric provides Prometheus metrics for DistKV.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, command and connection metrics, HTTP handler
//   - collector.go: collector reporting the live key count of the store
//
// Metrics include:
//
//   - distkv_commands_total{verb,outcome}
//   - distkv_command_duration_seconds{verb}
//   - distkv_connections_active, distkv_connections_total
//   - distkv_connection_errors_total{stage}
//   - distkv_keys
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
