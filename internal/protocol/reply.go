package protocol

import "strings"

// Reply is a response line as seen by a client.
type Reply struct {
	// Status is one of the Status* constants.
	Status string
	// Text is the line without its status word (for StatusValue, the value).
	Text string
	// Key is set for StatusValue replies.
	Key string
	// Keys is set for StatusKeys replies.
	Keys []string
}

// ParseReply interprets one response line.
func ParseReply(line string) Reply {
	line = strings.TrimRight(line, "\r\n")

	first, text, _ := strings.Cut(line, " ")
	// No status message starts with "= ", so a GET hit is recognised even
	// when the key happens to be a status word.
	if strings.HasPrefix(text, "= ") {
		return Reply{Status: StatusValue, Key: first, Text: text[2:]}
	}

	switch first {
	case StatusOK, StatusNotFound, StatusEmpty, StatusHelp, StatusErr, StatusBye:
		return Reply{Status: first, Text: text}
	case StatusKeys:
		return Reply{Status: first, Text: text, Keys: strings.Split(text, KeySeparator)}
	}
	return Reply{Status: StatusErr, Text: line}
}

// OK reports whether the reply is a success (anything but NOT_FOUND or ERR).
func (r Reply) OK() bool {
	return r.Status != StatusNotFound && r.Status != StatusErr
}
