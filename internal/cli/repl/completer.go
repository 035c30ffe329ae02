package repl

import (
	"strings"

	"github.com/yndnr/distkv-go/internal/core/domain"
)

// Completer provides verb completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the protocol verbs plus the shell
// builtins.
func NewCompleter() *Completer {
	commands := make([]string, 0, len(domain.Verbs)+2)
	for _, v := range domain.Verbs {
		commands = append(commands, v.String())
	}
	commands = append(commands, "QUIT", "HISTORY")
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix, matched
// case-insensitively. An empty prefix matches nothing.
func (c *Completer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	prefix = strings.ToUpper(prefix)

	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
