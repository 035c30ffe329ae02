package repl

import (
	"context"
	"strings"

	"github.com/yndnr/distkv-go/internal/core/domain"
	"github.com/yndnr/distkv-go/internal/protocol"
)

// LineExecutor is implemented by service.Executor.
type LineExecutor interface {
	ExecuteLine(ctx context.Context, line string) domain.Response
}

// Local runs shell commands in-process, under the same store locking as
// network clients.
type Local struct {
	exec LineExecutor
}

// NewLocal wraps an in-process executor.
func NewLocal(exec LineExecutor) *Local {
	return &Local{exec: exec}
}

// Exec implements Executor.
func (l *Local) Exec(ctx context.Context, line string) (string, error) {
	resp := l.exec.ExecuteLine(ctx, line)
	return strings.TrimSuffix(protocol.Encode(resp), "\n"), nil
}
