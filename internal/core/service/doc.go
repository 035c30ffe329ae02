// Package service provides domain services for DistKV.
//
// Domain services contain pure business logic and orchestrate operations on
// domain models. They define interfaces for storage dependencies, allowing for
// dependency injection and testability.
//
// This package contains:
//
//   - Executor: applies a decoded Command to the key-value store and builds
//     the Response, independent of any transport
//
// The executor holds no state of its own. Every command is exactly one call
// into the store, so it runs as a single critical section and can never be
// observed half-applied.
package service
