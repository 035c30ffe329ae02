// Package command defines the distkv-cli command tree on urfave/cli/v2.
//
// Each store verb is a subcommand that sends one protocol line and prints
// the reply in the selected output format. "shell" opens an interactive
// session over the same connection, "status" queries the HTTP health
// endpoint and "config" manages ~/.distkv/cli.yaml.
//
// Exit status is 0 on success, 1 when the key was not found and 2 on any
// other error.
package command
