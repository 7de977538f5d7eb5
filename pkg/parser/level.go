package parser

import (
	"strings"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// normalizeLevel uppercases raw and maps known aliases onto the four
// canonical levels. Unknown tokens pass through uppercased; idempotent by
// construction since every branch's output is stable under a second pass.
func normalizeLevel(raw string) types.Level {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch upper {
	case "E", "ERR", "ERROR", "FATAL", "CRITICAL", "CRIT":
		return types.LevelError
	case "W", "WARN", "WARNING":
		return types.LevelWarn
	case "I", "INFO", "NOTICE", "LOG":
		return types.LevelInfo
	case "D", "DEBUG", "TRACE", "VERBOSE":
		return types.LevelDebug
	default:
		return types.Level(upper)
	}
}

// isLevelToken reports whether raw is recognized as a level alias, as
// opposed to an arbitrary word that happens to precede a colon.
func isLevelToken(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "E", "ERR", "ERROR", "FATAL", "CRITICAL", "CRIT",
		"W", "WARN", "WARNING",
		"I", "INFO", "NOTICE", "LOG",
		"D", "DEBUG", "TRACE", "VERBOSE":
		return true
	default:
		return false
	}
}

var errorKeywords = []string{
	"error", "exception", "failed", "failure", "timeout", "refused",
	"denied", "fatal", "critical", "panic", "abort",
}

var warnKeywords = []string{
	"warning", "warn", "deprecated", "retry", "fallback", "slow",
}

// detectLevelFromContent infers a level from message text when no explicit
// level token is present (e.g. syslog bodies, the generic fallback).
func detectLevelFromContent(s string) types.Level {
	lower := strings.ToLower(s)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return types.LevelError
		}
	}
	for _, kw := range warnKeywords {
		if strings.Contains(lower, kw) {
			return types.LevelWarn
		}
	}
	return types.LevelInfo
}
