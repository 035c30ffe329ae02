// Package config holds distkv-cli settings.
//
// Settings come from ~/.distkv/cli.yaml and DISTKV_CLI_* environment
// variables, with command-line flags applied on top by the command layer.
package config
