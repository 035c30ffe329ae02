// Package main provides the entry point for distkv-server.
//
// distkv-server serves an in-memory key-value store over a line-oriented
// TCP protocol. It can additionally serve the same protocol on a Unix
// socket, expose Prometheus metrics and a health check over HTTP, and run
// an interactive shell on the terminal against the live store.
//
// Usage:
//
//	distkv-server [-config FILE] [-addr HOST:PORT] [-socket PATH] [-http HOST:PORT] [-shell]
//
// Settings are read from the config file, then DISTKV_* environment
// variables, then flags. When a config file is given, changes to its log
// level take effect without a restart.
package main
