// Package domain defines the core domain models for DistKV.
package domain

import "strings"

// Verb identifies the kind of a Command.
type Verb int

const (
	// VerbNone is a blank request line. It produces no response.
	VerbNone Verb = iota
	VerbSet
	VerbGet
	VerbDelete
	VerbUpdate
	VerbList
	VerbClear
	VerbHelp
	VerbExit
	// VerbInvalid marks a line that could not be decoded; Command.Err says why.
	VerbInvalid
)

var verbNames = map[Verb]string{
	VerbNone:    "",
	VerbSet:     "SET",
	VerbGet:     "GET",
	VerbDelete:  "DELETE",
	VerbUpdate:  "UPDATE",
	VerbList:    "LIST",
	VerbClear:   "CLEAR",
	VerbHelp:    "HELP",
	VerbExit:    "EXIT",
	VerbInvalid: "INVALID",
}

// verbUsage is the expected request form of each verb, shown in usage errors
// and in the HELP listing.
var verbUsage = map[Verb]string{
	VerbSet:    "SET <key> <value>",
	VerbGet:    "GET <key>",
	VerbDelete: "DELETE <key>",
	VerbUpdate: "UPDATE <key> <value>",
	VerbList:   "LIST",
	VerbClear:  "CLEAR",
	VerbHelp:   "HELP",
	VerbExit:   "EXIT",
}

// Verbs lists the protocol verbs in HELP order.
var Verbs = []Verb{VerbSet, VerbGet, VerbDelete, VerbUpdate, VerbList, VerbClear, VerbHelp, VerbExit}

// String returns the upper-case wire name of the verb.
func (v Verb) String() string {
	return verbNames[v]
}

// Usage returns the expected request form, e.g. "GET <key>".
func (v Verb) Usage() string {
	return verbUsage[v]
}

// ParseVerb matches a wire verb case-insensitively.
func ParseVerb(s string) (Verb, bool) {
	switch strings.ToUpper(s) {
	case "SET":
		return VerbSet, true
	case "GET":
		return VerbGet, true
	case "DELETE":
		return VerbDelete, true
	case "UPDATE":
		return VerbUpdate, true
	case "LIST":
		return VerbList, true
	case "CLEAR":
		return VerbClear, true
	case "HELP":
		return VerbHelp, true
	case "EXIT":
		return VerbExit, true
	default:
		return VerbInvalid, false
	}
}

// Command is one decoded request line.
//
// Only the fields relevant to Verb are set: Key for GET/DELETE, Key and Value
// for SET/UPDATE. An undecodable line has Verb == VerbInvalid and Err set to
// ErrUsage or ErrUnknownCommand; Target then names the verb the client tried.
type Command struct {
	Verb  Verb
	Key   string
	Value string

	// Raw is the request line as received, without the line terminator.
	Raw string
	// Target is the verb an invalid command was aimed at. For an unknown
	// verb it carries the raw (upper-cased) token.
	Target string
	Err    *DomainError
}

// IsEmpty reports whether the command came from a blank line.
func (c Command) IsEmpty() bool {
	return c.Verb == VerbNone
}

// Mutates reports whether executing the command can change the store.
func (c Command) Mutates() bool {
	switch c.Verb {
	case VerbSet, VerbDelete, VerbUpdate, VerbClear:
		return true
	default:
		return false
	}
}
