// Package protocol implements the DistKV line protocol.
//
// A request is one line of UTF-8 text terminated by "\n" (a preceding "\r" is
// tolerated). The first whitespace-delimited token is the verb, matched
// case-insensitively. At most two more tokens follow: the key, and the value,
// which is the rest of the line so that it may contain spaces:
//
//	SET <key> <value>
//	GET <key>
//	DELETE <key>
//	UPDATE <key> <value>
//	LIST
//	CLEAR
//	HELP
//	EXIT
//
// LIST, CLEAR, HELP and EXIT ignore any trailing tokens. Keys can never
// contain whitespace because the tokenizer ends the key at the first blank.
//
// Every response is exactly one line. Lines start with a status word so that
// scripted clients can match them, except for a GET hit which is rendered as
// "<key> = <value>":
//
//	OK key set
//	OK key deleted
//	OK key updated, old value: <old>
//	OK store cleared
//	<key> = <value>
//	NOT_FOUND key '<key>' not found
//	NOT_FOUND key '<key>' not found for update
//	KEYS <k1>, <k2>, ...
//	EMPTY no keys stored
//	HELP SET <key> <value> | GET <key> | ...
//	ERR usage: <form>
//	ERR unknown command '<VERB>', type HELP for available commands
//	ERR <message>
//	BYE
//
// A blank request line produces no response.
package protocol
