// Package logger provides structured logging for DistKV.
//
// This package wraps the standard library log/slog:
//
//   - logger.go: handler construction, levels, global default logger
//   - context.go: context-aware logging with connection IDs
//   - redact.go: masking of stored payloads and credentials
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime
//   - Automatic masking of request payloads
//   - Context propagation of the connection ID
package logger
