package store

import (
	"strings"

	"github.com/sentrylog/sentrylog/pkg/types"
)

var (
	criticalKeywords = []string{"fatal", "critical", "emergency", "panic", "severe"}
	highKeywords     = []string{"error", "fail", "exception", "timeout", "refused", "denied"}
	mediumKeywords   = []string{"warn", "warning", "deprecated", "retry"}
)

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// severityOf is a total function over nonempty strings, always yielding
// one of the four defined Severity values.
func severityOf(message string) types.Severity {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, criticalKeywords):
		return types.SeverityCritical
	case containsAny(lower, highKeywords):
		return types.SeverityHigh
	case containsAny(lower, mediumKeywords):
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}
