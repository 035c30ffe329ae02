// Package connection provides the client side of the DistKV protocols.
//
//   - client.go: line-protocol client over TCP or a Unix socket
//   - endpoint.go: resolution of --addr / --socket into a dialable endpoint
//   - http.go: /healthz client for the server's HTTP endpoint
package connection
