// Package logger provides structured logging for DistKV.
package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// payloadKeys are attribute keys that carry client data. Stored values never
// reach the log verbatim; only their size is kept.
var payloadKeys = []string{
	"value",
	"old_value",
	"raw",
	"line",
}

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		keyLower := strings.ToLower(a.Key)

		for _, k := range payloadKeys {
			if keyLower == k {
				return slog.String(a.Key, maskPayload(strVal))
			}
		}

		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskPayload replaces a payload with its length.
// Format: "***(N bytes)"; empty values stay empty.
func maskPayload(value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("***(%d bytes)", len(value))
}

// RedactString manually masks a payload value before logging.
func RedactString(value string) string {
	return maskPayload(value)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range payloadKeys {
		if keyLower == k {
			return true
		}
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
