// Package logger provides structured logging for DistKV.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "distkv.logger"
	// connIDKey is the context key for the client connection ID.
	connIDKey contextKey = "distkv.conn_id"
	// remoteKey is the context key for the client's remote address.
	remoteKey contextKey = "distkv.remote"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithConnID adds a connection ID to the context.
func WithConnID(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connIDKey, connID)
}

// ConnIDFromContext extracts the connection ID from context.
func ConnIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(connIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRemote adds the client's remote address to the context.
func WithRemote(ctx context.Context, remote string) context.Context {
	return context.WithValue(ctx, remoteKey, remote)
}

// RemoteFromContext extracts the remote address from context.
func RemoteFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(remoteKey).(string); ok {
		return r
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger
// with the connection ID and remote address from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if id := ConnIDFromContext(ctx); id != "" {
		l = l.With("conn_id", id)
	}
	if remote := RemoteFromContext(ctx); remote != "" {
		l = l.With("remote", remote)
	}

	return l
}
