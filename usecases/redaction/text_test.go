package redaction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDecodeLossy(t *testing.T) {
	assert.Equal(t, "plain text", decodeLossy([]byte("plain text")))
	assert.Equal(t, "héllo", decodeLossy([]byte("héllo")))

	decoded := decodeLossy([]byte{'a', 0xff, 'b'})
	assert.True(t, utf8.ValidString(decoded))
	assert.Equal(t, "a�b", decoded)
}

func TestTruncateText(t *testing.T) {
	text, truncated := truncateText("short", 10)
	assert.Equal(t, "short", text)
	assert.False(t, truncated)

	// "é" is two bytes: a cut at byte 2 would split it
	text, truncated = truncateText("aé€", 2)
	assert.True(t, truncated)
	assert.Equal(t, "a", text)

	text, truncated = truncateText("aé€", 3)
	assert.True(t, truncated)
	assert.Equal(t, "aé", text)

	long := strings.Repeat("日本語", 1000)
	for _, maxBytes := range []int{1, 2, 100, 1001, 2999} {
		text, truncated := truncateText(long, maxBytes)
		assert.True(t, truncated)
		assert.LessOrEqual(t, len(text), maxBytes)
		assert.True(t, utf8.ValidString(text))
	}

	text, truncated = truncateText(long, 0)
	assert.False(t, truncated)
	assert.Equal(t, long, text)
}
