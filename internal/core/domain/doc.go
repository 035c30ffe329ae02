// Package domain defines the core domain models for DistKV.
//
// Domain models are pure values without any IO dependencies or framework
// coupling. This package contains:
//
//   - Command: one decoded protocol request, tagged by Verb
//   - Response: the outcome of executing a Command, tagged by Kind
//   - Errors: the protocol and data error taxonomy (DomainError)
//
// Commands and responses are transient: each is built for a single request
// line and discarded after the response line has been written.
package domain
