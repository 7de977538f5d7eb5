package store

import (
	"regexp"
	"strings"
)

var (
	isoTimestampRe = regexp.MustCompile(`(?i)\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d{3})?Z?`)
	integerRe      = regexp.MustCompile(`\b\d+\b`)
	uuidRe         = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)
)

// normalize collapses a raw message into the fingerprint/pattern key: a
// lowercase, trimmed string with timestamps, bare integers, and UUIDs
// replaced by fixed tokens so that otherwise-identical errors differing
// only in those values collide. It is idempotent: normalize(normalize(m))
// == normalize(m), since none of the replacement tokens match any of the
// three patterns again.
func normalize(message string) string {
	m := strings.ToLower(strings.TrimSpace(message))
	m = isoTimestampRe.ReplaceAllString(m, "timestamp")
	m = uuidRe.ReplaceAllString(m, "uuid")
	m = integerRe.ReplaceAllString(m, "number")
	return m
}
