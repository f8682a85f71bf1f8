package sanitize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello-world", Sanitize("Hello World!!", 30))
	assert.Equal(t, "", Sanitize("___", 10))
	assert.Equal(t, "abcde", Sanitize("abcdefghij", 5))
	assert.Equal(t, "", Sanitize("", 10))
	assert.Equal(t, "my-cool-tool", Sanitize("  My   Cool/Tool  ", 30))
	assert.Equal(t, "42", Sanitize("#42#", 10))
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, s := range []string{"Hello World!!", "___", "Édouard's Sketch", "a.b.c", "ALL CAPS"} {
		once := Sanitize(s, 30)
		assert.Equal(t, once, Sanitize(once, 30), s)
	}
}

func TestSanitizeTruncatesAfterTrimming(t *testing.T) {
	// Truncation happens last and the result is not re-trimmed.
	assert.Equal(t, "ab-", Sanitize("--ab cd--", 3))
}

func TestID(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := ID(6)
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}

	// Probabilistic collision bound over the 36^6 space.
	assert.GreaterOrEqual(t, len(seen), 990)
}
