package protocol

import (
	"bufio"
	"strings"

	"github.com/yndnr/distkv-go/internal/core/domain"
)

// Status words that open a response line.
const (
	StatusOK       = "OK"
	StatusNotFound = "NOT_FOUND"
	StatusKeys     = "KEYS"
	StatusEmpty    = "EMPTY"
	StatusHelp     = "HELP"
	StatusErr      = "ERR"
	StatusBye      = "BYE"
	// StatusValue is not sent on the wire; ParseReply reports it for
	// "<key> = <value>" lines.
	StatusValue = "VALUE"
)

// KeySeparator joins keys in a KEYS line.
const KeySeparator = ", "

// HelpText is the fixed command listing returned by HELP.
var HelpText = helpText()

func helpText() string {
	forms := make([]string, 0, len(domain.Verbs))
	for _, v := range domain.Verbs {
		forms = append(forms, v.Usage())
	}
	return strings.Join(forms, " | ")
}

// Encode renders a response as a single newline-terminated line.
// domain.KindNone renders as the empty string.
func Encode(resp domain.Response) string {
	var b strings.Builder
	switch resp.Kind {
	case domain.KindNone:
		return ""
	case domain.KindOK:
		b.WriteString(StatusOK + " " + resp.Text)
	case domain.KindValue:
		b.WriteString(resp.Key + " = " + resp.Value)
	case domain.KindNotFound:
		b.WriteString(StatusNotFound + " key '" + resp.Key + "' not found")
		if resp.Verb == domain.VerbUpdate {
			b.WriteString(" for update")
		}
	case domain.KindKeyList:
		if len(resp.Keys) == 0 {
			b.WriteString(StatusEmpty + " no keys stored")
		} else {
			b.WriteString(StatusKeys + " " + strings.Join(resp.Keys, KeySeparator))
		}
	case domain.KindCleared:
		b.WriteString(StatusOK + " store cleared")
	case domain.KindHelp:
		b.WriteString(StatusHelp + " " + HelpText)
	case domain.KindUsageError:
		b.WriteString(StatusErr + " usage: " + resp.Text)
	case domain.KindUnknownCommand:
		b.WriteString(StatusErr + " unknown command '" + resp.Text + "', type HELP for available commands")
	case domain.KindBye:
		b.WriteString(StatusBye)
	case domain.KindError:
		msg := domain.ErrInternal.Message
		if resp.Err != nil {
			msg = resp.Err.Message
		}
		b.WriteString(StatusErr + " " + msg)
	default:
		b.WriteString(StatusErr + " " + domain.ErrInternal.Message)
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteResponse encodes resp into w. The caller flushes.
func WriteResponse(w *bufio.Writer, resp domain.Response) error {
	line := Encode(resp)
	if line == "" {
		return nil
	}
	_, err := w.WriteString(line)
	return err
}
