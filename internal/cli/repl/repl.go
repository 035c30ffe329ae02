package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/distkv-go/internal/protocol"
)

// Prompt is printed before every input line.
const Prompt = "distkv> "

// Executor runs one protocol line and returns the response line without its
// trailing newline. An empty reply means the command produced no output.
type Executor interface {
	Exec(ctx context.Context, line string) (string, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	exec      Executor
	completer *Completer
	history   *History
	banner    bool
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store. Passing nil keeps the default.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		if h != nil {
			r.history = h
		}
	}
}

// WithoutBanner suppresses the greeting printed by Run.
func WithoutBanner() Option {
	return func(r *REPL) { r.banner = false }
}

// New creates a new REPL instance.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(),
		banner:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns nil when the operator types EXIT or
// QUIT, when input ends, or when ctx is cancelled between commands.
func (r *REPL) Run(ctx context.Context) error {
	if r.banner {
		fmt.Fprintln(r.output, "DistKV shell - in-memory key-value store")
		fmt.Fprintln(r.output, "Type 'HELP' to see available commands, 'EXIT' to leave.")
		fmt.Fprintln(r.output)
	}

	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "Warning: history not loaded: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "Warning: history not saved: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(r.output, Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		r.history.Add(line)

		if done := r.dispatch(ctx, line); done || eof {
			return nil
		}
	}
}

// dispatch handles one non-blank line and reports whether the shell should
// stop.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	switch strings.ToUpper(firstWord(line)) {
	case "EXIT", "QUIT":
		fmt.Fprintln(r.output, "Bye.")
		return true
	case "HISTORY":
		r.printHistory()
		return false
	}

	if err := r.execute(ctx, line); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return false
}

func (r *REPL) execute(ctx context.Context, line string) error {
	reply, err := r.exec.Exec(ctx, line)
	if err != nil {
		return err
	}
	if reply == "" {
		return nil
	}
	fmt.Fprintln(r.output, reply)

	if parsed := protocol.ParseReply(reply); parsed.Status == protocol.StatusErr &&
		strings.HasPrefix(parsed.Text, "unknown command") {
		if hints := r.completer.Complete(firstWord(line)); len(hints) > 0 {
			fmt.Fprintf(r.output, "Did you mean: %s\n", strings.Join(hints, ", "))
		}
	}
	return nil
}

func (r *REPL) printHistory() {
	n := r.history.Len()
	for i := n - 1; i >= 0; i-- {
		fmt.Fprintf(r.output, "%4d  %s\n", n-i, r.history.Get(i))
	}
}

func firstWord(line string) string {
	if f := strings.Fields(line); len(f) > 0 {
		return f[0]
	}
	return ""
}
