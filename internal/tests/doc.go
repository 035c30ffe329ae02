// Package tests holds end-to-end tests that run the full server stack.
package tests
