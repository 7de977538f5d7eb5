package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentrylog/sentrylog/pkg/types"
)

func sampleErrors() []types.StoredError {
	return []types.StoredError{
		{
			ID: "1", ServerID: "srv-west", ServerName: "west-1",
			ErrorMessage: "Database connection pool exhausted",
			Category:     "Database Connectivity", Severity: types.SeverityCritical, Trend: types.TrendNew,
		},
		{
			ID: "2", ServerID: "srv-east", ServerName: "east-1",
			ErrorMessage: "Authentication token expired", Category: "Authentication",
			Severity: types.SeverityLow, Trend: types.TrendStable,
		},
	}
}

func TestSearchCriticalAndDatabaseCuesCombine(t *testing.T) {
	results := Run(sampleErrors(), "critical database")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearchServerCue(t *testing.T) {
	results := Run(sampleErrors(), "server-west")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearchFallsBackToSubstringWhenNoCueMatches(t *testing.T) {
	results := Run(sampleErrors(), "expired")
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].ID)
}

func TestSearchEmptyQueryReturnsDefaultLimit(t *testing.T) {
	results := Run(sampleErrors(), "")
	assert.Len(t, results, 2)
}

func TestSearchCueSuppressesFallbackEvenWithExtraTokens(t *testing.T) {
	// "database" matches the category cue; the unmatched token
	// "zzrandom" never triggers the substring fallback, so every
	// Database Connectivity error still comes back.
	results := Run(sampleErrors(), "database zzrandom")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}
