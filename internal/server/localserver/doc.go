// Package localserver provides the Unix socket server for local administration.
//
// It serves the same line protocol as the TCP listener, on a Unix domain
// socket whose file mode restricts access to the owning user. Operators use
// it with `distkv-cli --socket <path>` or any tool able to speak to a Unix
// socket (for example `nc -U`).
//
// Security:
//
//   - Only reachable through the file system
//   - The socket file is created with mode 0600
//   - No rate limiting is applied
package localserver
