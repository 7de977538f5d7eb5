package parser

import (
	"regexp"
	"strings"

	"github.com/sentrylog/sentrylog/pkg/types"
)

var (
	ipAddressRe  = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	statusCodeRe = regexp.MustCompile(`\b[4-5]\d{2}\b`)
	timestampRe  = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}[T ]\d{2}:\d{2}:\d{2}|\b\w{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}\b`)
)

// Keyword sets reused from the store's category taxonomy: a message that
// would categorize as Database Connectivity also sets hasDatabase, and so
// on for the other semantic flags with a keyword basis.
var (
	databaseKeywords = []string{"connection", "timeout", "database", "db", "mysql", "postgres", "mongo"}
	networkKeywords  = []string{"network", "dns", "host", "unreachable", "connection refused", "timeout"}
	authKeywords     = []string{"auth", "login", "password", "token", "permission", "unauthorized", "401", "403"}
	memoryKeywords   = []string{"memory", "oom", "heap", "stack overflow", "out of memory"}
	securityKeywords = []string{"security", "attack", "breach", "suspicious", "blocked", "firewall"}
)

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractSemantics computes the boolean feature vector for a message body.
func extractSemantics(message string) types.Semantics {
	lower := strings.ToLower(message)
	return types.Semantics{
		HasIPAddress:  ipAddressRe.MatchString(message),
		HasURL:        urlRe.MatchString(message),
		HasStatusCode: statusCodeRe.MatchString(message),
		HasTimestamp:  timestampRe.MatchString(message),
		HasDatabase:   containsAny(lower, databaseKeywords),
		HasNetwork:    containsAny(lower, networkKeywords),
		HasAuth:       containsAny(lower, authKeywords),
		HasMemory:     containsAny(lower, memoryKeywords),
		HasSecurity:   containsAny(lower, securityKeywords),
	}
}

var levelBase = map[types.Level]int{
	types.LevelError: 8,
	types.LevelWarn:  4,
	types.LevelInfo:  1,
	types.LevelDebug: 0,
}

// computeUrgency combines level, semantic features, and a handful of
// keyword boosts from the original line into an integer clamped to [0,10].
func computeUrgency(level types.Level, sem types.Semantics, originalLine string) int {
	score, ok := levelBase[level]
	if !ok {
		score = levelBase[types.LevelInfo]
	}

	if sem.HasDatabase {
		score += 2
	}
	if sem.HasNetwork {
		score += 1
	}
	if sem.HasAuth {
		score += 3
	}
	if sem.HasSecurity {
		score += 5
	}
	if sem.HasMemory {
		score += 2
	}
	if sem.HasStatusCode {
		score += 1
	}

	lower := strings.ToLower(originalLine)
	if strings.Contains(lower, "critical") || strings.Contains(lower, "fatal") {
		score += 3
	}
	if strings.Contains(lower, "timeout") {
		score += 2
	}
	if strings.Contains(lower, "failed") || strings.Contains(lower, "failure") {
		score += 2
	}

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}
