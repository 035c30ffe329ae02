// Package output renders CLI results.
//
// A command result is printed as plain text by default (the value of a GET,
// one key per line for LIST, the server's message otherwise) so that shell
// scripts can consume it. The json and yaml formats emit a structured
// document instead. Non-command data such as version or health reports is
// rendered as a FIELD/VALUE table in text mode.
package output
