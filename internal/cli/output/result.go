package output

import (
	"strings"

	"github.com/yndnr/distkv-go/internal/protocol"
)

// Result is the structured form of one command reply.
type Result struct {
	Command string   `json:"command" yaml:"command"`
	Status  string   `json:"status" yaml:"status"`
	Key     string   `json:"key,omitempty" yaml:"key,omitempty"`
	Value   *string  `json:"value,omitempty" yaml:"value,omitempty"`
	Keys    []string `json:"keys,omitempty" yaml:"keys,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewResult converts a parsed reply to a Result. line is the request that
// produced it.
func NewResult(line string, r protocol.Reply) Result {
	res := Result{Status: r.Status}
	if f := strings.Fields(line); len(f) > 0 {
		res.Command = strings.ToUpper(f[0])
	}

	switch r.Status {
	case protocol.StatusValue:
		v := r.Text
		res.Key, res.Value = r.Key, &v
	case protocol.StatusKeys:
		res.Keys = r.Keys
	case protocol.StatusEmpty:
		res.Keys = []string{}
		res.Message = r.Text
	default:
		res.Message = r.Text
	}
	return res
}
