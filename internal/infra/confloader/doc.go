// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf that
// merges several sources into one typed struct:
//
//   - Files: YAML
//   - Environment variables: DISTKV_ prefix, e.g. DISTKV_SERVER_TCP_ADDR
//   - Maps: flags and tests, keys in dotted form
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap after Load)
//  2. Environment variables
//  3. Configuration files
//  4. Default values already present in the target struct
//
// A Watcher built on fsnotify reports changes to the configuration file so
// that settings such as the log level can be applied without a restart.
package confloader
