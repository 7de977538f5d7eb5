package search

import (
	"regexp"
	"strings"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// DefaultLimit is the result count returned for an empty query.
const DefaultLimit = 50

// MaxLimit caps the number of results returned for any non-empty query.
const MaxLimit = 100

var serverCueRe = regexp.MustCompile(`server[- ]?(\w+)`)

// filterFunc reports whether one stored error matches a cue.
type filterFunc func(types.StoredError) bool

// Run executes query q against errors, which must already be ordered
// most-recent-first, and returns at most MaxLimit matches preserving that
// order. An empty query returns the most recent DefaultLimit errors.
func Run(errors []types.StoredError, q string) []types.StoredError {
	q = strings.TrimSpace(q)
	if q == "" {
		return capResults(errors, DefaultLimit)
	}

	filters := cueFilters(strings.ToLower(q))
	var matched []types.StoredError
	if len(filters) == 0 {
		matched = substringFallback(errors, strings.ToLower(q))
	} else {
		for _, e := range errors {
			if matchesAll(e, filters) {
				matched = append(matched, e)
			}
		}
	}
	return capResults(matched, MaxLimit)
}

// cueFilters builds the conjunctive filter chain for a lowercased query.
// A query containing several cues accumulates several filters, applied
// together.
func cueFilters(lower string) []filterFunc {
	var filters []filterFunc

	if strings.Contains(lower, "critical") || strings.Contains(lower, "urgent") {
		filters = append(filters, func(e types.StoredError) bool { return e.Severity == types.SeverityCritical })
	}
	if strings.Contains(lower, "database") || strings.Contains(lower, "db") {
		filters = append(filters, func(e types.StoredError) bool { return e.Category == "Database Connectivity" })
	}
	if strings.Contains(lower, "timeout") {
		filters = append(filters, func(e types.StoredError) bool {
			return strings.Contains(strings.ToLower(e.ErrorMessage), "timeout")
		})
	}
	if strings.Contains(lower, "new") || strings.Contains(lower, "recent") {
		filters = append(filters, func(e types.StoredError) bool {
			return e.Trend == types.TrendNew || e.Trend == types.TrendIncreasing
		})
	}
	if m := serverCueRe.FindStringSubmatch(lower); m != nil {
		word := m[1]
		filters = append(filters, func(e types.StoredError) bool {
			return strings.Contains(strings.ToLower(e.ServerID), word) ||
				strings.Contains(strings.ToLower(e.ServerName), word)
		})
	}
	return filters
}

func matchesAll(e types.StoredError, filters []filterFunc) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}

// substringFallback runs only when no cue matched at all: a plain
// substring search over message, server name, and category.
func substringFallback(errors []types.StoredError, lower string) []types.StoredError {
	var out []types.StoredError
	for _, e := range errors {
		haystack := strings.ToLower(e.ErrorMessage + " " + e.ServerName + " " + e.Category)
		if strings.Contains(haystack, lower) {
			out = append(out, e)
		}
	}
	return out
}

func capResults(errors []types.StoredError, n int) []types.StoredError {
	if len(errors) > n {
		return errors[:n]
	}
	return errors
}
