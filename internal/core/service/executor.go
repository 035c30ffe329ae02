// Package service provides domain services for DistKV.
package service

import (
	"context"
	"time"

	"github.com/yndnr/distkv-go/internal/core/domain"
	"github.com/yndnr/distkv-go/internal/protocol"
	"github.com/yndnr/distkv-go/internal/telemetry/logger"
)

// KVStore defines the storage interface used by the executor.
//
// Each method must be atomic with respect to every other method.
type KVStore interface {
	// Set inserts or overwrites a value.
	Set(key, value string)

	// Get returns the value of key, if present.
	Get(key string) (string, bool)

	// Delete removes key and reports whether it existed.
	Delete(key string) bool

	// Update replaces the value of an existing key, returning the old value.
	// It never creates a key.
	Update(key, value string) (string, bool)

	// SortedKeys returns a snapshot of all keys in display order.
	SortedKeys() []string

	// Clear removes every entry.
	Clear()
}

// Recorder receives one observation per executed command.
type Recorder interface {
	ObserveCommand(verb, outcome string, elapsed time.Duration)
}

// Executor applies commands to a KVStore.
type Executor struct {
	store    KVStore
	recorder Recorder
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRecorder reports every executed command to r.
func WithRecorder(r Recorder) ExecutorOption {
	return func(e *Executor) {
		e.recorder = r
	}
}

// NewExecutor creates a new Executor.
func NewExecutor(store KVStore, opts ...ExecutorOption) *Executor {
	e := &Executor{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteLine decodes one request line and executes it.
func (e *Executor) ExecuteLine(ctx context.Context, line string) domain.Response {
	return e.Execute(ctx, protocol.Decode(line))
}

// Execute applies cmd and returns its response.
//
// EXIT and HELP never touch the store. Blank commands return a
// domain.KindNone response and are not recorded.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command) domain.Response {
	if cmd.IsEmpty() {
		return domain.Response{}
	}

	start := time.Now()
	resp := e.apply(cmd)

	if e.recorder != nil {
		e.recorder.ObserveCommand(metricVerb(cmd), resp.Outcome(), time.Since(start))
	}
	if resp.Err != nil && cmd.Verb == domain.VerbInvalid {
		logger.L(ctx).Debug("rejected command",
			"target", cmd.Target,
			"code", resp.Err.Code)
	}
	return resp
}

func (e *Executor) apply(cmd domain.Command) domain.Response {
	switch cmd.Verb {
	case domain.VerbSet:
		e.store.Set(cmd.Key, cmd.Value)
		return domain.OK(domain.VerbSet, "key set")

	case domain.VerbGet:
		v, ok := e.store.Get(cmd.Key)
		if !ok {
			return domain.NotFound(domain.VerbGet, cmd.Key)
		}
		return domain.Value(cmd.Key, v)

	case domain.VerbDelete:
		if !e.store.Delete(cmd.Key) {
			return domain.NotFound(domain.VerbDelete, cmd.Key)
		}
		return domain.OK(domain.VerbDelete, "key deleted")

	case domain.VerbUpdate:
		old, ok := e.store.Update(cmd.Key, cmd.Value)
		if !ok {
			return domain.NotFound(domain.VerbUpdate, cmd.Key)
		}
		return domain.OK(domain.VerbUpdate, "key updated, old value: "+old)

	case domain.VerbList:
		return domain.KeyList(e.store.SortedKeys())

	case domain.VerbClear:
		e.store.Clear()
		return domain.Cleared()

	case domain.VerbHelp:
		return domain.Help()

	case domain.VerbExit:
		return domain.Bye()

	default:
		return rejected(cmd)
	}
}

// rejected turns an undecodable command into its error response.
func rejected(cmd domain.Command) domain.Response {
	if cmd.Err != nil && cmd.Err.Is(domain.ErrUsage) {
		if v, ok := domain.ParseVerb(cmd.Target); ok {
			return domain.UsageError(v)
		}
	}
	if cmd.Err != nil && !cmd.Err.Is(domain.ErrUnknownCommand) {
		return domain.Failure(cmd.Err)
	}
	return domain.UnknownCommand(cmd.Target)
}

// metricVerb bounds label cardinality: unknown verbs collapse to "INVALID".
func metricVerb(cmd domain.Command) string {
	return cmd.Verb.String()
}
