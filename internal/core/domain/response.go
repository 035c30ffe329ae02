// Package domain defines the core domain models for DistKV.
package domain

// Kind identifies the variant of a Response.
type Kind int

const (
	// KindNone produces no output (blank request line).
	KindNone Kind = iota
	// KindOK is a confirmation; Text holds the message.
	KindOK
	// KindValue carries Key and Value of a GET hit.
	KindValue
	// KindNotFound names the absent Key.
	KindNotFound
	// KindKeyList carries Keys; an empty list renders as "no keys stored".
	KindKeyList
	// KindCleared confirms CLEAR.
	KindCleared
	// KindHelp is the fixed verb listing.
	KindHelp
	// KindUsageError carries the expected request form in Text.
	KindUsageError
	// KindUnknownCommand carries the unrecognised verb in Text.
	KindUnknownCommand
	// KindBye acknowledges EXIT; the connection closes after it is written.
	KindBye
	// KindError reports a failure that is not the client's request shape,
	// such as an exceeded line limit. Err is set.
	KindError
)

// Response is the outcome of executing one Command.
type Response struct {
	Kind Kind
	// Verb is the verb that produced the response (VerbInvalid for
	// undecodable input).
	Verb  Verb
	Key   string
	Value string
	Keys  []string
	Text  string
	Err   *DomainError
}

// OK builds a confirmation response.
func OK(verb Verb, text string) Response {
	return Response{Kind: KindOK, Verb: verb, Text: text}
}

// Value builds a GET hit.
func Value(key, value string) Response {
	return Response{Kind: KindValue, Verb: VerbGet, Key: key, Value: value}
}

// NotFound builds the response for an operation on an absent key.
func NotFound(verb Verb, key string) Response {
	return Response{Kind: KindNotFound, Verb: verb, Key: key, Err: ErrKeyNotFound}
}

// KeyList builds a LIST response.
func KeyList(keys []string) Response {
	return Response{Kind: KindKeyList, Verb: VerbList, Keys: keys}
}

// Cleared builds a CLEAR response.
func Cleared() Response {
	return Response{Kind: KindCleared, Verb: VerbClear}
}

// Help builds the HELP response.
func Help() Response {
	return Response{Kind: KindHelp, Verb: VerbHelp}
}

// UsageError builds the response for a known verb used with the wrong
// number of arguments.
func UsageError(verb Verb) Response {
	return Response{Kind: KindUsageError, Verb: VerbInvalid, Text: verb.Usage(), Err: ErrUsage}
}

// UnknownCommand builds the response for an unrecognised verb.
func UnknownCommand(verb string) Response {
	return Response{Kind: KindUnknownCommand, Verb: VerbInvalid, Text: verb, Err: ErrUnknownCommand}
}

// Bye builds the EXIT acknowledgement.
func Bye() Response {
	return Response{Kind: KindBye, Verb: VerbExit}
}

// Failure builds an error response.
func Failure(err *DomainError) Response {
	return Response{Kind: KindError, Verb: VerbInvalid, Err: err}
}

// Closes reports whether the connection ends after this response.
func (r Response) Closes() bool {
	return r.Kind == KindBye || (r.Kind == KindError && r.Err != nil && r.Err.Is(ErrLineTooLong))
}

// Outcome classifies the response for metrics: "ok", "not_found" or "error".
func (r Response) Outcome() string {
	switch r.Kind {
	case KindNotFound:
		return "not_found"
	case KindUsageError, KindUnknownCommand, KindError:
		return "error"
	default:
		return "ok"
	}
}
