package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/distkv-go/internal/protocol"
)

// TextFormatter prints results the way a shell script wants them and falls
// back to a FIELD/VALUE table for anything else.
type TextFormatter struct {
	NoHeaders bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case Result:
		return formatResult(w, v)
	case *Result:
		return formatResult(w, *v)
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := toTable(data)
	if err != nil {
		_, err = fmt.Fprintf(w, "%v\n", data)
		return err
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

func formatResult(w io.Writer, r Result) error {
	var out string
	switch {
	case r.Status == protocol.StatusValue && r.Value != nil:
		out = *r.Value
	case r.Status == protocol.StatusKeys:
		out = strings.Join(r.Keys, "\n")
	case r.Status == protocol.StatusHelp:
		out = strings.ReplaceAll(r.Message, " | ", "\n")
	case r.Message == "":
		out = r.Status
	default:
		out = r.Message
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
