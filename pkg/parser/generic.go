package parser

import (
	"regexp"
	"strings"
)

var (
	genericBracketTsRe = regexp.MustCompile(`^\[([^\]]+)\]\s*([A-Za-z]+)[:\s]+(.+)$`)
	genericISOTsRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?)\s+([A-Za-z]+)[:\s]*(.+)$`)
	genericLevelOnlyRe = regexp.MustCompile(`^([A-Za-z]+)[:\s]+(.+)$`)
)

// parseGeneric tries the three bracket/timestamp/level-prefixed patterns in
// order and falls back to keyword level inference over the whole line. It
// never fails, so its second return is always true.
func parseGeneric(line string) (extraction, bool) {
	if m := genericBracketTsRe.FindStringSubmatch(line); m != nil {
		return extraction{
			Timestamp: resolveTimestamp(m[1]),
			Level:     normalizeLevel(m[2]),
			Message:   strings.TrimSpace(m[3]),
			Parser:    "generic",
		}, true
	}

	if m := genericISOTsRe.FindStringSubmatch(line); m != nil {
		return extraction{
			Timestamp: resolveTimestamp(m[1]),
			Level:     normalizeLevel(m[2]),
			Message:   strings.TrimSpace(m[3]),
			Parser:    "generic",
		}, true
	}

	if m := genericLevelOnlyRe.FindStringSubmatch(line); m != nil && isLevelToken(m[1]) {
		return extraction{
			Level:   normalizeLevel(m[1]),
			Message: strings.TrimSpace(m[2]),
			Parser:  "generic",
		}, true
	}

	return extraction{
		Level:   detectLevelFromContent(line),
		Message: strings.TrimSpace(line),
		Parser:  "fallback",
	}, true
}
