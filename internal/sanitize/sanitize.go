package sanitize

import (
	"math/rand"
	"regexp"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var unsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Sanitize lowercases s, replaces every run of characters outside [a-z0-9]
// with a single hyphen, trims leading and trailing hyphens and truncates the
// result to max bytes. Truncation happens last, so a truncated slug may end
// mid-token or on a hyphen.
func Sanitize(s string, max int) string {
	s = strings.ToLower(s)
	s = unsafe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > max {
		s = s[:max]
	}
	return s
}

// ID returns n characters drawn uniformly from the lowercase alphanumeric
// alphabet. Collision avoidance only, not a security token.
func ID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
