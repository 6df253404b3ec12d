// Package logutil shapes untrusted strings before they reach a log line.
package logutil

import (
	"strings"
	"unicode/utf8"
)

// TruncateForLog flattens line breaks and cuts s to at most maxRunes runes,
// marking a cut with "...". Provider replies and user text are logged through
// it so that one field cannot split or flood a log record.
func TruncateForLog(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxRunes <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// MaskReference shows only the last four characters of a payer reference.
func MaskReference(ref string) string {
	if len(ref) <= 4 {
		return "****"
	}
	return "****" + ref[len(ref)-4:]
}
