// Package repl provides the interactive DistKV shell.
//
// The shell reads one command per line, hands it to an Executor and prints
// the response line. An Executor may run commands in-process against the
// server's store or forward them to a remote server over the line protocol:
//
//   - repl.go: read loop and shell builtins
//   - executor.go: in-process Executor over the command service
//   - completer.go: verb completion
//   - history.go: bounded command history with optional file persistence
package repl
