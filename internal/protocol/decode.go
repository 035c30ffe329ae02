package protocol

import (
	"strings"
	"unicode"

	"github.com/yndnr/distkv-go/internal/core/domain"
)

// Decode parses one request line into a Command.
//
// Decode never fails: malformed input yields a Command with Verb
// domain.VerbInvalid and Err describing the problem, so that the caller can
// answer it and keep the connection open.
func Decode(line string) domain.Command {
	raw := strings.TrimRight(line, "\r\n")
	body := strings.TrimSpace(raw)
	if body == "" {
		return domain.Command{Verb: domain.VerbNone, Raw: raw}
	}

	verbTok, rest := nextToken(body)
	key, value := nextToken(rest)

	verb, ok := domain.ParseVerb(verbTok)
	if !ok {
		return domain.Command{
			Verb:   domain.VerbInvalid,
			Raw:    raw,
			Target: strings.ToUpper(verbTok),
			Err:    domain.ErrUnknownCommand,
		}
	}

	cmd := domain.Command{Verb: verb, Raw: raw}
	switch verb {
	case domain.VerbSet, domain.VerbUpdate:
		if key == "" || value == "" {
			return usage(verb, raw)
		}
		cmd.Key, cmd.Value = key, value
	case domain.VerbGet, domain.VerbDelete:
		if key == "" || value != "" {
			return usage(verb, raw)
		}
		cmd.Key = key
	}
	// LIST, CLEAR, HELP and EXIT take no arguments; extras are ignored.
	return cmd
}

func usage(verb domain.Verb, raw string) domain.Command {
	return domain.Command{
		Verb:   domain.VerbInvalid,
		Raw:    raw,
		Target: verb.String(),
		Err:    domain.ErrUsage.WithDetails(verb.Usage()),
	}
}

// nextToken splits s at its first whitespace run. rest has its leading
// whitespace removed but is otherwise untouched.
func nextToken(s string) (tok, rest string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
