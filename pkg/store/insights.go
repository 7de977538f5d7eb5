package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// allCategoryNames returns every category name in rule order, followed by
// the General fallback, giving insight generation a deterministic
// iteration order when breaking ties on recent-category counts.
func allCategoryNames() []string {
	names := make([]string, 0, len(categoryRules)+1)
	for _, r := range categoryRules {
		names = append(names, r.name)
	}
	return append(names, categoryGeneral)
}

const (
	patternMinCount       = 5
	patternMinServers     = 1
	anomalyMinRecent      = 10
	anomalyMinCategoryHit = 3
	dbRecommendationMin   = 3
	maxInsights           = 5
)

// regenerateInsights replaces s.insights wholesale with the top maxInsights
// of the rules below, ranked by confidence. Must be called with mu held.
func (s *Store) regenerateInsights(now time.Time) {
	var produced []types.Insight

	for key, entry := range s.patterns.entries() {
		if entry.Count > patternMinCount && len(entry.Servers) > patternMinServers {
			confidence := 60 + 2*int(entry.Count)
			if confidence > 95 {
				confidence = 95
			}
			produced = append(produced, types.Insight{
				Type:        types.InsightPattern,
				Title:       "Cross-server error pattern detected",
				Description: fmt.Sprintf("%q has recurred %d times across %d servers", key, entry.Count, len(entry.Servers)),
				Confidence:  confidence,
				Pattern:     key,
			})
		}
	}

	cutoff := now.Add(-recentWindow)
	var recent []*types.StoredError
	for _, e := range s.errors {
		if e.LastSeen.After(cutoff) {
			recent = append(recent, e)
		}
	}
	if len(recent) > anomalyMinRecent {
		counts := make(map[string]int)
		for _, e := range recent {
			counts[e.Category]++
		}
		var topCategory string
		var topCount int
		for _, name := range allCategoryNames() {
			if c := counts[name]; c > topCount {
				topCount = c
				topCategory = name
			}
		}
		if topCount > anomalyMinCategoryHit {
			pct := float64(topCount) / float64(len(recent)) * 100
			produced = append(produced, types.Insight{
				Type:        types.InsightAnomaly,
				Title:       "Error rate anomaly",
				Description: fmt.Sprintf("%s accounts for %d of %d recent errors (%.0f%%)", topCategory, topCount, len(recent), pct),
				Confidence:  85,
			})
		}
	}

	var dbErrors int
	for _, e := range s.errors {
		if e.Category == "Database Connectivity" {
			dbErrors++
		}
	}
	if dbErrors > dbRecommendationMin {
		produced = append(produced, types.Insight{
			Type:        types.InsightRecommendation,
			Title:       "Recurring database connectivity issues",
			Description: fmt.Sprintf("%d stored errors are Database Connectivity issues; review connection pooling and retry policy", dbErrors),
			Confidence:  78,
		})
	}

	sort.SliceStable(produced, func(i, j int) bool { return produced[i].Confidence > produced[j].Confidence })
	if len(produced) > maxInsights {
		produced = produced[:maxInsights]
	}
	s.insights = produced
	metrics.InsightsGenerated.Inc()
}
