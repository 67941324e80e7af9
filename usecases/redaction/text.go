package redaction

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DefaultMaxTextBytes caps the UTF-8 size of the text sent to the detection provider.
const DefaultMaxTextBytes = 500_000

// decodeLossy decodes content as UTF-8, replacing invalid sequences with U+FFFD.
func decodeLossy(content []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(decoded)
}

// truncateText cuts valid UTF-8 text to at most maxBytes bytes without splitting a
// multi-byte character.
func truncateText(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
