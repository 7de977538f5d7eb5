package store

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sentrylog/sentrylog/pkg/types"
)

// patternTableFactor sizes the pattern table's LRU cap relative to
// maxErrors, per the design notes resolving the "pattern table unbounded
// growth" open question: active, recently-matched patterns are never
// evicted ahead of genuinely stale ones.
const patternTableFactor = 5

// patternTable tracks cross-server recurrence of normalized messages,
// bounded by an LRU so unbounded distinct messages cannot grow it forever.
type patternTable struct {
	cache *lru.Cache[string, *types.PatternEntry]
}

func newPatternTable(maxErrors int) *patternTable {
	size := maxErrors * patternTableFactor
	if size <= 0 {
		size = defaultMaxErrors * patternTableFactor
	}
	cache, _ := lru.New[string, *types.PatternEntry](size)
	return &patternTable{cache: cache}
}

// record updates the entry for key, creating it on first occurrence, and
// marks it recently-used so active patterns survive LRU pressure.
func (p *patternTable) record(key, serverID string, now time.Time) *types.PatternEntry {
	entry, ok := p.cache.Get(key)
	if !ok {
		entry = &types.PatternEntry{Servers: make(map[string]struct{})}
	}
	entry.Count++
	entry.Servers[serverID] = struct{}{}
	entry.LastSeen = now
	p.cache.Add(key, entry)
	return entry
}

// entries returns a snapshot of every currently-cached pattern keyed by
// its normalized message.
func (p *patternTable) entries() map[string]*types.PatternEntry {
	out := make(map[string]*types.PatternEntry, p.cache.Len())
	for _, key := range p.cache.Keys() {
		if entry, ok := p.cache.Peek(key); ok {
			out[key] = entry
		}
	}
	return out
}

func (p *patternTable) len() int {
	return p.cache.Len()
}
