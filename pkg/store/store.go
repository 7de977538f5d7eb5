package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// defaultMaxErrors is the spec's default bound on the stored error list.
const defaultMaxErrors = 1000

// recentWindow is the lookback used for trend classification and the
// anomaly insight's "recent errors" set.
const recentWindow = 60 * time.Minute

// Config configures a Store.
type Config struct {
	// MaxErrors bounds the stored error list; 0 uses defaultMaxErrors.
	MaxErrors int
}

type fingerprintKey struct {
	serverID   string
	logFile    string
	normalized string
}

func fingerprintOf(e *types.StoredError) fingerprintKey {
	return fingerprintKey{serverID: e.ServerID, logFile: e.LogFile, normalized: normalize(e.ErrorMessage)}
}

// Store is the Memory Store: a single mutex-guarded value holding the
// deduplicated error list, the pattern table, and the derived insights.
// There is exactly one of these per server process, constructed in main
// and passed down — no package-level mutable state.
type Store struct {
	mu sync.Mutex

	maxErrors int
	errors    []*types.StoredError // most-recent-first insertion order
	index     map[fingerprintKey]*types.StoredError
	patterns  *patternTable
	insights  []types.Insight
}

// New creates an empty Store.
func New(cfg Config) *Store {
	maxErrors := cfg.MaxErrors
	if maxErrors <= 0 {
		maxErrors = defaultMaxErrors
	}
	return &Store{
		maxErrors: maxErrors,
		index:     make(map[fingerprintKey]*types.StoredError),
		patterns:  newPatternTable(maxErrors),
	}
}

// AddError is the store's core contract. It is idempotent under
// fingerprint: a repeat of (serverId, logFile, normalize(errorMessage))
// merges into the existing record; anything else creates a new one. In
// both cases insights are re-derived before returning.
func (s *Store) AddError(in types.IncomingError) types.StoredError {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.IngestDuration)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	norm := normalize(in.ErrorMessage)
	key := fingerprintKey{serverID: in.ServerID, logFile: in.LogFile, normalized: norm}

	if existing, ok := s.index[key]; ok {
		existing.Count++
		existing.LastSeen = now
		existing.Trend = s.trendFor(norm, existing, now)
		s.patterns.record(norm, in.ServerID, now)
		s.regenerateInsights(now)
		metrics.ErrorsIngestedTotal.WithLabelValues(existing.Category).Inc()
		return *existing
	}

	rec := &types.StoredError{
		ID:           uuid.NewString(),
		ServerID:     in.ServerID,
		ServerName:   in.ServerName,
		LogFile:      in.LogFile,
		LineNumber:   in.LineNumber,
		Timestamp:    in.Timestamp,
		ErrorMessage: in.ErrorMessage,
		Parser:       in.Parser,
		Urgency:      in.Urgency,
		Semantics:    in.Semantics,
		Severity:     severityOf(in.ErrorMessage),
		Category:     categorize(in.ErrorMessage),
		Count:        1,
		FirstSeen:    now,
		LastSeen:     now,
		Trend:        types.TrendNew,
	}
	s.index[key] = rec
	s.errors = append([]*types.StoredError{rec}, s.errors...)
	if len(s.errors) > s.maxErrors {
		for _, dropped := range s.errors[s.maxErrors:] {
			delete(s.index, fingerprintOf(dropped))
		}
		s.errors = s.errors[:s.maxErrors]
	}

	s.patterns.record(norm, in.ServerID, now)
	s.regenerateInsights(now)

	metrics.ErrorsIngestedTotal.WithLabelValues(rec.Category).Inc()
	metrics.StoredErrorsTotal.Set(float64(len(s.errors)))
	metrics.PatternTableSize.Set(float64(s.patterns.len()))

	log.WithComponent("store").Debug().
		Str("serverId", in.ServerID).
		Str("category", rec.Category).
		Str("severity", string(rec.Severity)).
		Msg("stored new error")

	return *rec
}

// trendFor recomputes self's trend from the count of other stored errors
// sharing normalizedMessage whose LastSeen falls within recentWindow. Must
// be called with mu held.
func (s *Store) trendFor(normalizedMessage string, self *types.StoredError, now time.Time) types.Trend {
	cutoff := now.Add(-recentWindow)
	r := 0
	for _, e := range s.errors {
		if e == self {
			continue
		}
		if normalize(e.ErrorMessage) != normalizedMessage {
			continue
		}
		if e.LastSeen.After(cutoff) {
			r++
		}
	}
	switch {
	case r == 0:
		return types.TrendNew
	case r > 5:
		return types.TrendIncreasing
	case r < 2:
		return types.TrendDecreasing
	default:
		return types.TrendStable
	}
}

// Snapshot returns a defensive copy of the stored error list, most-recent
// first, safe for a caller to read without holding the store's lock.
func (s *Store) Snapshot() []types.StoredError {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.StoredError, len(s.errors))
	for i, e := range s.errors {
		out[i] = *e
	}
	return out
}

// Recent returns at most n of the most recent stored errors.
func (s *Store) Recent(n int) []types.StoredError {
	all := s.Snapshot()
	if n > 0 && len(all) > n {
		return all[:n]
	}
	return all
}

// Insights returns the current derived insight list.
func (s *Store) Insights() []types.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Insight, len(s.insights))
	copy(out, s.insights)
	return out
}

// Len reports the current number of stored errors.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors)
}
