// Package main provides the entry point for distkv-cli.
//
// distkv-cli talks to a running distkv-server over its TCP address or
// Unix socket:
//
//	distkv-cli set greeting hello world
//	distkv-cli get greeting
//	distkv-cli -o json list
//	distkv-cli --socket /run/distkv.sock shell
//	distkv-cli --http 127.0.0.1:9090 status
package main
